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

package breaker

import "github.com/skytether/groundlink/pkg/link"

// State holds the shared link collections owned by the host process: the
// live outbound list and the sysid-routed map. It is passed explicitly into
// NewRegistry rather than living as process globals; the registry is its
// only mutator.
type State struct {
	outputs []*Connection
	routes  map[int]*Connection
}

func NewState() *State {
	return &State{routes: make(map[int]*Connection)}
}

// Connection is a registry-owned handle to an established outbound command
// link. It is closed and discarded when removed; nothing outside the
// registry closes it.
type Connection struct {
	ID     string
	Device string
	conn   link.Conn
}

// Address returns the resolved address of the underlying link.
func (c *Connection) Address() string {
	return c.conn.Address()
}

// Descriptor returns the underlying I/O descriptor, or -1 when the link has
// none.
func (c *Connection) Descriptor() int {
	return c.conn.Descriptor()
}
