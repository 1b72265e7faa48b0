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

package link

import (
	"errors"
	"sort"
	"sync"
)

var (
	ErrInvalidDescriptor = errors.New("descriptor is not monitorable")
	ErrNotRegistered     = errors.New("descriptor is not registered")
)

// FDList is the process-wide descriptor-tracking facility. Other subsystems
// read it to include command-link sockets in their I/O monitoring, so it
// guards itself even though the breaker core is single-threaded.
type FDList struct {
	mu  sync.Mutex
	fds map[int]struct{}
}

func NewFDList() *FDList {
	return &FDList{fds: make(map[int]struct{})}
}

// Register implements Monitor.
func (l *FDList) Register(fd int) error {
	if fd < 0 {
		return ErrInvalidDescriptor
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.fds[fd] = struct{}{}

	return nil
}

// Unregister implements Monitor.
func (l *FDList) Unregister(fd int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.fds[fd]; !ok {
		return ErrNotRegistered
	}

	delete(l.fds, fd)

	return nil
}

// Descriptors returns the registered descriptors in ascending order.
func (l *FDList) Descriptors() []int {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]int, 0, len(l.fds))
	for fd := range l.fds {
		out = append(out, fd)
	}

	sort.Ints(out)

	return out
}
