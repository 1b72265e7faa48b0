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

// Package breaker tears down outbound command links when a geofence breach
// is reported on the telemetry stream.
package breaker

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/skytether/groundlink/pkg/link"
	"github.com/skytether/groundlink/pkg/logger"
	"github.com/skytether/groundlink/pkg/models"
)

// Registry owns the live outbound connections and the sysid-routed
// connections. All mutation happens on the single goroutine that delivers
// commands and telemetry, so it takes no locks.
type Registry struct {
	state    *State
	dialer   link.Dialer
	monitor  link.Monitor
	identity models.SourceIdentity
	logger   logger.Logger
}

func NewRegistry(
	state *State, dialer link.Dialer, monitor link.Monitor,
	identity models.SourceIdentity, log logger.Logger) *Registry {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Registry{
		state:    state,
		dialer:   dialer,
		monitor:  monitor,
		identity: identity,
		logger:   log,
	}
}

// Add establishes a link to device and appends it to the live list. On dial
// failure nothing is mutated. Descriptor registration is best-effort and
// never rolls back a successful add.
func (r *Registry) Add(ctx context.Context, device string) (*Connection, error) {
	conn, err := r.dialer.Dial(ctx, device, r.identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, device, err)
	}

	c := &Connection{
		ID:     uuid.New().String(),
		Device: device,
		conn:   conn,
	}

	r.state.outputs = append(r.state.outputs, c)

	r.registerDescriptor(c)

	r.logger.Info().
		Str("connection_id", c.ID).
		Str("device", device).
		Str("address", c.Address()).
		Msg("Added breaker connection")

	return c, nil
}

// Remove closes and discards the first live connection whose positional
// index (in string form), address or device string equals selector. Indexes
// shift down after a removal; a missing match is a no-op, not an error.
// It returns the removed connection, or nil when nothing matched.
func (r *Registry) Remove(selector string) *Connection {
	for i, c := range r.state.outputs {
		if strconv.Itoa(i) != selector && c.Address() != selector && c.Device != selector {
			continue
		}

		r.unregisterDescriptor(c)

		if err := c.conn.Close(); err != nil {
			r.logger.Warn().Err(err).
				Str("address", c.Address()).
				Msg("Error closing breaker connection")
		}

		r.state.outputs = append(r.state.outputs[:i], r.state.outputs[i+1:]...)

		r.logger.Info().
			Str("connection_id", c.ID).
			Str("address", c.Address()).
			Msg("Removed breaker connection")

		return c
	}

	return nil
}

// AddRoute establishes a link to device dedicated to sysid. An existing
// route for the same sysid is closed before the new connection is stored.
func (r *Registry) AddRoute(ctx context.Context, sysid int, device string) (*Connection, error) {
	if sysid < 1 || sysid > 255 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSysID, sysid)
	}

	conn, err := r.dialer.Dial(ctx, device, r.identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnect, device, err)
	}

	c := &Connection{
		ID:     uuid.New().String(),
		Device: device,
		conn:   conn,
	}

	r.registerDescriptor(c)

	if old, ok := r.state.routes[sysid]; ok {
		r.unregisterDescriptor(old)

		if err := old.conn.Close(); err != nil {
			r.logger.Warn().Err(err).
				Str("address", old.Address()).
				Int("sysid", sysid).
				Msg("Error closing replaced sysid route")
		}
	}

	r.state.routes[sysid] = c

	r.logger.Info().
		Str("connection_id", c.ID).
		Str("device", device).
		Int("sysid", sysid).
		Msg("Added sysid route")

	return c, nil
}

// Summary describes one live connection for display.
type Summary struct {
	Index   int
	ID      string
	Device  string
	Address string
}

// RouteSummary describes one sysid route for display.
type RouteSummary struct {
	SysID   int
	ID      string
	Device  string
	Address string
}

// Summaries returns a read-only view of the live list in index order.
func (r *Registry) Summaries() []Summary {
	out := make([]Summary, 0, len(r.state.outputs))

	for i, c := range r.state.outputs {
		out = append(out, Summary{
			Index:   i,
			ID:      c.ID,
			Device:  c.Device,
			Address: c.Address(),
		})
	}

	return out
}

// Routes returns a read-only view of the sysid routes in sysid order.
func (r *Registry) Routes() []RouteSummary {
	sysids := make([]int, 0, len(r.state.routes))
	for sysid := range r.state.routes {
		sysids = append(sysids, sysid)
	}

	sort.Ints(sysids)

	out := make([]RouteSummary, 0, len(sysids))

	for _, sysid := range sysids {
		c := r.state.routes[sysid]
		out = append(out, RouteSummary{
			SysID:   sysid,
			ID:      c.ID,
			Device:  c.Device,
			Address: c.Address(),
		})
	}

	return out
}

// Len returns the number of live connections, not counting sysid routes.
func (r *Registry) Len() int {
	return len(r.state.outputs)
}

// Close tears down every live connection and sysid route. Used on process
// shutdown.
func (r *Registry) Close() {
	for len(r.state.outputs) > 0 {
		r.Remove("0")
	}

	for sysid, c := range r.state.routes {
		r.unregisterDescriptor(c)

		if err := c.conn.Close(); err != nil {
			r.logger.Warn().Err(err).Int("sysid", sysid).Msg("Error closing sysid route")
		}

		delete(r.state.routes, sysid)
	}
}

func (r *Registry) registerDescriptor(c *Connection) {
	if err := r.monitor.Register(c.Descriptor()); err != nil {
		r.logger.Debug().Err(err).
			Str("address", c.Address()).
			Msg("Could not register link descriptor for monitoring")
	}
}

func (r *Registry) unregisterDescriptor(c *Connection) {
	if err := r.monitor.Unregister(c.Descriptor()); err != nil {
		r.logger.Debug().Err(err).
			Str("address", c.Address()).
			Msg("Could not unregister link descriptor")
	}
}
