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

//go:generate mockgen -destination=mock_link.go -package=link github.com/skytether/groundlink/pkg/link Conn,Dialer,Monitor

import (
	"context"

	"github.com/skytether/groundlink/pkg/models"
)

// Conn is an established outbound command link.
type Conn interface {
	// Address returns the resolved form of the device string, used for
	// display and removal matching.
	Address() string
	// Descriptor returns the underlying I/O descriptor, or -1 when the
	// transport does not expose one.
	Descriptor() int
	Close() error
}

// Dialer establishes outbound command links.
type Dialer interface {
	Dial(ctx context.Context, device string, identity models.SourceIdentity) (Conn, error)
}

// Monitor tracks low-level I/O descriptors for process-wide monitoring.
// Registration is best-effort; callers must treat failures as non-fatal.
type Monitor interface {
	Register(fd int) error
	Unregister(fd int) error
}
