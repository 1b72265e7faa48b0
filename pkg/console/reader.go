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
	"bufio"
	"io"
)

// Reader turns an input stream into a channel of raw command lines so the
// host loop can select over commands and telemetry on one goroutine.
type Reader struct {
	in    io.Reader
	lines chan string
}

func NewReader(in io.Reader) *Reader {
	return &Reader{
		in:    in,
		lines: make(chan string),
	}
}

// Start begins scanning input. The lines channel closes on EOF or read
// error.
func (r *Reader) Start() {
	go func() {
		defer close(r.lines)

		scanner := bufio.NewScanner(r.in)
		for scanner.Scan() {
			r.lines <- scanner.Text()
		}
	}()
}

// Lines returns the stream of raw input lines.
func (r *Reader) Lines() <-chan string {
	return r.lines
}
