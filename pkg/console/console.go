/*
 * Copyright 2025 Skytether Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package console tokenizes user command lines and dispatches them to
// registered handlers.
package console

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/skytether/groundlink/pkg/logger"
)

// HandlerFunc handles one tokenized command invocation. args excludes the
// command name itself.
type HandlerFunc func(ctx context.Context, args []string)

type command struct {
	handler HandlerFunc
	help    string
}

// Interpreter owns the command table and the user-facing output channel.
type Interpreter struct {
	out      io.Writer
	commands map[string]command
	logger   logger.Logger
}

func NewInterpreter(out io.Writer, log logger.Logger) *Interpreter {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Interpreter{
		out:      out,
		commands: make(map[string]command),
		logger:   log,
	}
}

// Register adds a command to the table, replacing any previous handler for
// the same name.
func (i *Interpreter) Register(name, help string, handler HandlerFunc) {
	i.commands[name] = command{handler: handler, help: help}
}

// Printf writes to the user-facing output channel.
func (i *Interpreter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(i.out, format, args...)
}

// Dispatch tokenizes one input line and invokes the matching handler. Blank
// lines are ignored; unknown commands print the known command set.
func (i *Interpreter) Dispatch(ctx context.Context, line string) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return
	}

	if tokens[0] == "help" {
		i.printHelp()
		return
	}

	cmd, ok := i.commands[tokens[0]]
	if !ok {
		i.logger.Debug().Str("command", tokens[0]).Msg("Unknown command")
		i.Printf("Unknown command: %s\n", tokens[0])
		i.printHelp()

		return
	}

	cmd.handler(ctx, tokens[1:])
}

func (i *Interpreter) printHelp() {
	names := make([]string, 0, len(i.commands))
	for name := range i.commands {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		i.Printf("%s: %s\n", name, i.commands[name].help)
	}
}
