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

package telemetry

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/skytether/groundlink/pkg/models"
)

// busConn is the publish side of a NATS connection.
type busConn interface {
	Publish(subject string, data []byte) error
}

// Publisher writes telemetry frames onto the bus. It is the producing
// counterpart of Subscriber, used by simulators and the stream tests.
type Publisher struct {
	conn    busConn
	subject string
}

func NewPublisher(conn busConn, subject string) *Publisher {
	if subject == "" {
		subject = defaultSubject
	}

	return &Publisher{conn: conn, subject: subject}
}

// Publish marshals and publishes one frame.
func (p *Publisher) Publish(frame *models.TelemetryFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("failed to marshal telemetry frame: %w", err)
	}

	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish telemetry frame: %w", err)
	}

	return nil
}

// PublishFenceStatus publishes a FENCE_STATUS frame for the given system.
func (p *Publisher) PublishFenceStatus(systemID int, status models.FenceStatus) error {
	payload, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to marshal fence status: %w", err)
	}

	return p.Publish(&models.TelemetryFrame{
		Type:      models.FrameFenceStatus,
		SystemID:  systemID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
}
