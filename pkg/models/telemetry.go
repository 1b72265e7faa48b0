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

package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Frame type tags carried by decoded telemetry frames.
const (
	FrameHeartbeat   = "HEARTBEAT"
	FrameFenceStatus = "FENCE_STATUS"
	FrameSysStatus   = "SYS_STATUS"
)

// TelemetryFrame is a single decoded message from the telemetry stream.
// Payload holds the type-specific body; it is decoded lazily by the
// consumer that cares about the type.
type TelemetryFrame struct {
	Type      string          `json:"type"`
	SystemID  int             `json:"system_id"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// FenceStatus is the body of a FENCE_STATUS frame. BreachStatus is nonzero
// while a geofence breach is active.
type FenceStatus struct {
	BreachStatus int `json:"breach_status"`
	BreachCount  int `json:"breach_count"`
	BreachType   int `json:"breach_type"`
}

// FenceStatus decodes the frame payload as a FenceStatus body.
func (f *TelemetryFrame) FenceStatus() (*FenceStatus, error) {
	var status FenceStatus

	if err := json.Unmarshal(f.Payload, &status); err != nil {
		return nil, fmt.Errorf("failed to decode fence status payload: %w", err)
	}

	return &status, nil
}
