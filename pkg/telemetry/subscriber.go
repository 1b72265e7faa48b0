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

// Package telemetry adapts the NATS telemetry bus into an ordered stream of
// decoded frames.
package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/skytether/groundlink/pkg/logger"
	"github.com/skytether/groundlink/pkg/models"
)

var (
	errURLRequired     = errors.New("telemetry url is required")
	errSubjectRequired = errors.New("telemetry subject is required")
	ErrAlreadyStarted  = errors.New("subscriber already started")
)

const (
	defaultSubject = "telemetry.frames"
	defaultBuffer  = 256
)

// Config represents telemetry bus configuration.
type Config struct {
	URL     string `json:"url"`
	Subject string `json:"subject,omitempty"`
	Buffer  int    `json:"buffer,omitempty"`
}

// Validate implements config.Validator.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errURLRequired
	}

	if c.Subject == "" {
		c.Subject = defaultSubject
	}

	if c.Buffer <= 0 {
		c.Buffer = defaultBuffer
	}

	return nil
}

// Handler consumes decoded telemetry frames. Frames are delivered one at a
// time, in arrival order, on a single goroutine.
type Handler interface {
	HandleTelemetry(frame *models.TelemetryFrame)
}

// Subscriber reads raw bus messages from a NATS subject, decodes and
// filters them, and exposes the surviving frames in arrival order.
type Subscriber struct {
	conn   *nats.Conn
	config Config
	filter *TypeFilter
	frames chan *models.TelemetryFrame
	msgs   chan *nats.Msg
	sub    *nats.Subscription
	done   chan struct{}
	logger logger.Logger
}

// NewSubscriber creates a Subscriber on an established NATS connection.
// A nil filter passes every frame through.
func NewSubscriber(conn *nats.Conn, config Config, filter *TypeFilter, log logger.Logger) *Subscriber {
	if log == nil {
		log = logger.NewTestLogger()
	}

	if config.Buffer <= 0 {
		config.Buffer = defaultBuffer
	}

	return &Subscriber{
		conn:   conn,
		config: config,
		filter: filter,
		frames: make(chan *models.TelemetryFrame, config.Buffer),
		msgs:   make(chan *nats.Msg, config.Buffer),
		done:   make(chan struct{}),
		logger: log,
	}
}

// Start subscribes to the telemetry subject and begins decoding. A channel
// subscription keeps arrival order; the single decode goroutine keeps
// delivery serialized.
func (s *Subscriber) Start() error {
	if s.sub != nil {
		return ErrAlreadyStarted
	}

	sub, err := s.conn.ChanSubscribe(s.config.Subject, s.msgs)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.config.Subject, err)
	}

	s.sub = sub

	go s.decodeLoop()

	s.logger.Info().Str("subject", s.config.Subject).Msg("Subscribed to telemetry stream")

	return nil
}

// Frames returns the stream of decoded, filtered frames. The channel closes
// after Stop.
func (s *Subscriber) Frames() <-chan *models.TelemetryFrame {
	return s.frames
}

// Stop unsubscribes and drains the decode loop.
func (s *Subscriber) Stop() error {
	if s.sub == nil {
		return nil
	}

	err := s.sub.Unsubscribe()

	close(s.msgs)

	// Drain so the decode loop can finish a blocked send.
	for range s.frames {
	}

	<-s.done

	return err
}

func (s *Subscriber) decodeLoop() {
	defer close(s.frames)
	defer close(s.done)

	for msg := range s.msgs {
		frame, err := DecodeFrame(msg.Data)
		if err != nil {
			s.logger.Debug().Err(err).Msg("Dropping undecodable telemetry message")
			continue
		}

		if s.filter.Drop(frame.Type) {
			continue
		}

		s.frames <- frame
	}
}

// DecodeFrame unmarshals one raw bus message into a TelemetryFrame.
func DecodeFrame(data []byte) (*models.TelemetryFrame, error) {
	var frame models.TelemetryFrame

	if err := json.Unmarshal(data, &frame); err != nil {
		return nil, fmt.Errorf("failed to decode telemetry frame: %w", err)
	}

	if frame.Type == "" {
		return nil, errors.New("telemetry frame has no type tag")
	}

	return &frame, nil
}
