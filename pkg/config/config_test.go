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

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytether/groundlink/pkg/logger"
)

var errNameRequired = errors.New("name is required")

type testConfig struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func (c *testConfig) Validate() error {
	if c.Name == "" {
		return errNameRequired
	}

	return nil
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfigFile(t, `{"name":"breaker","count":3}`)

	var cfg testConfig

	err := NewConfig(logger.NewTestLogger()).LoadAndValidate(context.Background(), path, &cfg)
	require.NoError(t, err)
	assert.Equal(t, "breaker", cfg.Name)
	assert.Equal(t, 3, cfg.Count)
}

func TestLoadAndValidateValidationFailure(t *testing.T) {
	path := writeConfigFile(t, `{"count":3}`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	assert.ErrorIs(t, err, errNameRequired)
}

func TestLoadAndValidateMissingFile(t *testing.T) {
	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "/nonexistent/config.json", &cfg)
	assert.ErrorIs(t, err, errLoadConfigFailed)
	assert.ErrorIs(t, err, errReadConfigFile)
}

func TestLoadAndValidateMalformedJSON(t *testing.T) {
	path := writeConfigFile(t, `{"name":`)

	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), path, &cfg)
	assert.ErrorIs(t, err, errLoadConfigFailed)
	assert.ErrorIs(t, err, errParseConfigFile)
}

func TestLoadAndValidateRequiresPointer(t *testing.T) {
	var cfg testConfig

	err := NewConfig(nil).LoadAndValidate(context.Background(), "ignored.json", cfg)
	assert.ErrorIs(t, err, errInvalidConfigPtr)

	err = NewConfig(nil).LoadAndValidate(context.Background(), "ignored.json", nil)
	assert.ErrorIs(t, err, errInvalidConfigPtr)
}
