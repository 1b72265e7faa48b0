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

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/skytether/groundlink/pkg/breaker"
	"github.com/skytether/groundlink/pkg/config"
	"github.com/skytether/groundlink/pkg/console"
	"github.com/skytether/groundlink/pkg/lifecycle"
	"github.com/skytether/groundlink/pkg/link"
	"github.com/skytether/groundlink/pkg/logger"
	"github.com/skytether/groundlink/pkg/models"
	"github.com/skytether/groundlink/pkg/telemetry"
)

var errFailedToLoadConfig = fmt.Errorf("failed to load config")

// Config represents the groundlink process configuration.
type Config struct {
	Identity    models.SourceIdentity `json:"identity"`
	Telemetry   telemetry.Config      `json:"telemetry"`
	DialTimeout models.Duration       `json:"dial_timeout,omitempty"`
	Logging     *logger.Config        `json:"logging,omitempty"`
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if err := c.Identity.Validate(); err != nil {
		return err
	}

	return c.Telemetry.Validate()
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "/etc/groundlink/groundlink.json", "Path to groundlink config file")
	flag.Parse()

	ctx, cancel := lifecycle.SignalContext(context.Background())
	defer cancel()

	cfgLoader := config.NewConfig(nil)

	var cfg Config

	if err := cfgLoader.LoadAndValidate(ctx, *configPath, &cfg); err != nil {
		return fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	// Align the process-wide zerolog default with the configured level so
	// library output outside the component loggers honors it too.
	if err := logger.Init(cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	breakerLogger, err := lifecycle.CreateComponentLogger("breaker", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	nc, err := nats.Connect(cfg.Telemetry.URL, nats.Name("groundlink"))
	if err != nil {
		return fmt.Errorf("failed to connect to telemetry bus: %w", err)
	}
	defer nc.Close()

	dialer := link.NewNetDialer(time.Duration(cfg.DialTimeout), breakerLogger)
	fdList := link.NewFDList()
	state := breaker.NewState()
	registry := breaker.NewRegistry(state, dialer, fdList, cfg.Identity, breakerLogger)

	interp := console.NewInterpreter(os.Stdout, breakerLogger)
	controller := breaker.NewController(registry, interp, breakerLogger)
	interp.Register("breaker", "breaker control <list|add|remove|sysid>", controller.HandleCommand)

	telemetryLogger, err := lifecycle.CreateComponentLogger("telemetry", cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	sub := telemetry.NewSubscriber(nc, cfg.Telemetry, telemetry.DefaultTypeFilter(), telemetryLogger)
	if err := sub.Start(); err != nil {
		return err
	}

	defer func() {
		_ = sub.Stop()
	}()

	reader := console.NewReader(os.Stdin)
	reader.Start()

	defer registry.Close()

	// Commands and telemetry share one dispatch goroutine, so the breaker
	// core never sees concurrent invocation.
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-reader.Lines():
			if !ok {
				return nil
			}

			interp.Dispatch(ctx, line)
		case frame, ok := <-sub.Frames():
			if !ok {
				return nil
			}

			controller.HandleTelemetry(frame)
		}
	}
}
