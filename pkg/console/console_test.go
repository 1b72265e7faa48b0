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

package console

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytether/groundlink/pkg/logger"
)

func TestInterpreterDispatch(t *testing.T) {
	var out bytes.Buffer

	interp := NewInterpreter(&out, logger.NewTestLogger())

	var got []string

	interp.Register("breaker", "breaker control", func(_ context.Context, args []string) {
		got = args
	})

	interp.Dispatch(context.Background(), "  breaker add   udp:10.0.0.1:14550 ")

	assert.Equal(t, []string{"add", "udp:10.0.0.1:14550"}, got)
	assert.Empty(t, out.String())
}

func TestInterpreterBlankLineIsIgnored(t *testing.T) {
	var out bytes.Buffer

	interp := NewInterpreter(&out, logger.NewTestLogger())
	interp.Register("breaker", "breaker control", func(context.Context, []string) {
		t.Fatal("handler must not run for blank input")
	})

	interp.Dispatch(context.Background(), "   ")

	assert.Empty(t, out.String())
}

func TestInterpreterUnknownCommand(t *testing.T) {
	var out bytes.Buffer

	interp := NewInterpreter(&out, logger.NewTestLogger())
	interp.Register("breaker", "breaker control", func(context.Context, []string) {})

	interp.Dispatch(context.Background(), "bogus")

	assert.Contains(t, out.String(), "Unknown command: bogus\n")
	assert.Contains(t, out.String(), "breaker: breaker control\n")
}

func TestInterpreterHelpListsCommands(t *testing.T) {
	var out bytes.Buffer

	interp := NewInterpreter(&out, logger.NewTestLogger())
	interp.Register("breaker", "breaker control", func(context.Context, []string) {})
	interp.Register("alpha", "alpha things", func(context.Context, []string) {})

	interp.Dispatch(context.Background(), "help")

	assert.Equal(t, "alpha: alpha things\nbreaker: breaker control\n", out.String())
}

func TestReaderStreamsLinesAndClosesOnEOF(t *testing.T) {
	reader := NewReader(strings.NewReader("first\nsecond\n"))
	reader.Start()

	var lines []string

	timeout := time.After(2 * time.Second)

	for {
		select {
		case line, ok := <-reader.Lines():
			if !ok {
				require.Equal(t, []string{"first", "second"}, lines)
				return
			}

			lines = append(lines, line)
		case <-timeout:
			t.Fatal("reader never closed")
		}
	}
}
