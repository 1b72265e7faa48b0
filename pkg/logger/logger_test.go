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

package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsBadLevel(t *testing.T) {
	err := Init(&Config{Level: "shouting"})
	assert.Error(t, err)
}

func TestInitHonorsConfiguredLevel(t *testing.T) {
	require.NoError(t, Init(&Config{Level: "warn"}))
	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())
	assert.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel(), "global zerolog output must honor the configured level")
}

func TestInitDebugOverridesLevel(t *testing.T) {
	require.NoError(t, Init(&Config{Level: "error", Debug: true}))
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel())
}

func TestInitNilConfigUsesDefaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "")

	require.NoError(t, Init(nil))
	assert.Equal(t, zerolog.InfoLevel, GetLogger().GetLevel())
}

func TestDefaultConfigEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_OUTPUT", "stderr")
	t.Setenv("DEBUG", "not-a-bool")

	cfg := DefaultConfig()

	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.Debug, "unparseable DEBUG falls back to default")
}

func TestTestLoggerDiscardsEverything(t *testing.T) {
	log := NewTestLogger()

	// Must not panic or write anywhere.
	log.Info().Str("k", "v").Msg("dropped")
	componentLog := log.WithComponent("breaker")
	componentLog.Info().Msg("dropped")
	fieldsLog := log.WithFields(map[string]interface{}{"k": "v"})
	fieldsLog.Info().Msg("dropped")
}
