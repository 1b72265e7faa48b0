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

// Package models contains shared configuration and wire types.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	errInvalidDuration  = errors.New("invalid duration")
	errSystemIDRange    = errors.New("source system id must be between 1 and 255")
	errComponentIDRange = errors.New("source component id must be between 0 and 255")
)

// Duration is a time.Duration that unmarshals from either a Go duration
// string ("30s") or a number of nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// SourceIdentity carries the process-wide system and component ids stamped
// onto outbound command links. The ids are owned by the host process; the
// breaker only reads them.
type SourceIdentity struct {
	SystemID    int `json:"system_id"`
	ComponentID int `json:"component_id"`
}

// Validate implements config.Validator.
func (s *SourceIdentity) Validate() error {
	if s.SystemID < 1 || s.SystemID > 255 {
		return errSystemIDRange
	}

	if s.ComponentID < 0 || s.ComponentID > 255 {
		return errComponentIDRange
	}

	return nil
}
