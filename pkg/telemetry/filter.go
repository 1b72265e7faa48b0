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

import "github.com/skytether/groundlink/pkg/models"

// defaultNoisyTypes lists the high-rate frame types that are dropped before
// dispatch. FENCE_STATUS is deliberately absent: the breaker consumes it.
var defaultNoisyTypes = []string{
	"NAV_CONTROLLER_OUTPUT",
	"RAW_IMU",
	"TERRAIN_REPORT",
	"SERVO_OUTPUT_RAW",
	"GPS_RAW_INT",
	"TIMESYNC",
	"GLOBAL_POSITION_INT",
	"MEMINFO",
	"MISSION_ITEM_REACHED",
	"RC_CHANNELS",
	"EKF_STATUS_REPORT",
	"SCALED_PRESSURE",
	"VIBRATION",
	"HOME_POSITION",
	"SIMSTATE",
	"BATTERY_STATUS",
	"AHRS2",
	"POSITION_TARGET_GLOBAL_INT",
	"PARAM_VALUE",
	"HWSTATUS",
	"SCALED_IMU2",
	"GPS_GLOBAL_ORIGIN",
	"MISSION_CURRENT",
	"VFR_HUD",
	"LOCAL_POSITION_NED",
	"ATTITUDE",
	"SCALED_IMU3",
	"SENSOR_OFFSETS",
	models.FrameSysStatus,
	"AHRS",
	"SYSTEM_TIME",
	"POWER_STATUS",
}

// TypeFilter drops frame types that no subscriber cares about.
type TypeFilter struct {
	noisy map[string]struct{}
}

// NewTypeFilter builds a filter that drops exactly the given frame types.
func NewTypeFilter(types ...string) *TypeFilter {
	noisy := make(map[string]struct{}, len(types))
	for _, t := range types {
		noisy[t] = struct{}{}
	}

	return &TypeFilter{noisy: noisy}
}

// DefaultTypeFilter drops the standard high-rate types.
func DefaultTypeFilter() *TypeFilter {
	return NewTypeFilter(defaultNoisyTypes...)
}

// Drop reports whether frames of the given type should be discarded before
// dispatch.
func (f *TypeFilter) Drop(frameType string) bool {
	if f == nil {
		return false
	}

	_, ok := f.noisy[frameType]

	return ok
}
