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

import (
	"context"
	"strconv"

	"github.com/skytether/groundlink/pkg/logger"
	"github.com/skytether/groundlink/pkg/models"
)

// Controller is the command and telemetry front end of the breaker. It
// tracks which devices it has added and tears all of them down when a
// fence breach is reported.
type Controller struct {
	registry *Registry
	console  Console
	logger   logger.Logger
	tracked  map[string]struct{}
}

func NewController(registry *Registry, console Console, log logger.Logger) *Controller {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Controller{
		registry: registry,
		console:  console,
		logger:   log,
		tracked:  make(map[string]struct{}),
	}
}

// HandleCommand dispatches one tokenized "breaker" command. Malformed
// invocations print a usage line and mutate nothing.
func (c *Controller) HandleCommand(ctx context.Context, args []string) {
	if len(args) == 0 || args[0] == "list" {
		c.handleList()
		return
	}

	switch args[0] {
	case "add":
		if len(args) != 2 {
			c.console.Printf("Usage: breaker add DEVICE\n")
			return
		}

		c.handleAdd(ctx, args[1])
	case "remove":
		if len(args) != 2 {
			c.console.Printf("Usage: breaker remove DEVICE\n")
			return
		}

		c.handleRemove(args[1])
	case "sysid":
		if len(args) != 3 {
			c.console.Printf("Usage: breaker sysid SYSID DEVICE\n")
			return
		}

		c.handleSysID(ctx, args[1], args[2])
	default:
		c.console.Printf("usage: breaker <list|add|remove|sysid>\n")
	}
}

// HandleTelemetry implements telemetry.Handler. Every fence-status frame is
// evaluated on its own: an active breach tears down whatever is currently
// tracked, so a repeated breach report is naturally a no-op.
func (c *Controller) HandleTelemetry(frame *models.TelemetryFrame) {
	if frame == nil || frame.Type != models.FrameFenceStatus {
		return
	}

	status, err := frame.FenceStatus()
	if err != nil {
		c.logger.Debug().Err(err).Msg("Ignoring malformed fence status frame")
		return
	}

	if status.BreachStatus == 0 {
		return
	}

	c.console.Printf("Fence breach detected. Disconnecting breaker.\n")
	c.logger.Warn().
		Int("breach_count", status.BreachCount).
		Int("tracked", len(c.tracked)).
		Msg("Fence breach detected, disconnecting tracked devices")

	for device := range c.tracked {
		c.handleRemove(device)
	}

	c.tracked = make(map[string]struct{})
}

// Tracked returns the device identifiers currently considered live, in no
// particular order.
func (c *Controller) Tracked() []string {
	out := make([]string, 0, len(c.tracked))
	for device := range c.tracked {
		out = append(out, device)
	}

	return out
}

func (c *Controller) handleList() {
	for _, s := range c.registry.Summaries() {
		c.console.Printf("%d: %s\n", s.Index, s.Address)
	}

	for _, route := range c.registry.Routes() {
		c.console.Printf("sysid %d: %s\n", route.SysID, route.Address)
	}
}

func (c *Controller) handleAdd(ctx context.Context, device string) {
	c.console.Printf("Adding breaker %s\n", device)

	if _, err := c.registry.Add(ctx, device); err != nil {
		c.console.Printf("Breaker failed to connect to %s\n", device)
		c.logger.Error().Err(err).Str("device", device).Msg("Breaker add failed")

		return
	}

	c.tracked[device] = struct{}{}
}

func (c *Controller) handleRemove(selector string) {
	if removed := c.registry.Remove(selector); removed != nil {
		c.console.Printf("Removing breaker %s\n", removed.Address())
	}

	// The selector may name a device that was already removed out of band,
	// e.g. by index. Discarding is idempotent either way.
	delete(c.tracked, selector)
}

func (c *Controller) handleSysID(ctx context.Context, sysidArg, device string) {
	sysid, err := strconv.Atoi(sysidArg)
	if err != nil {
		c.console.Printf("Usage: breaker sysid SYSID DEVICE\n")
		return
	}

	c.console.Printf("Adding breaker %s for sysid %d\n", device, sysid)

	if _, err := c.registry.AddRoute(ctx, sysid, device); err != nil {
		c.console.Printf("Breaker failed to connect to %s\n", device)
		c.logger.Error().Err(err).Str("device", device).Int("sysid", sysid).Msg("Breaker sysid add failed")

		return
	}

	c.tracked[device] = struct{}{}
}
