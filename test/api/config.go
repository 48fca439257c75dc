/*
Copyright 2024-2025 the Unikorn Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingConfiguration is raised when required settings are absent.
var ErrMissingConfiguration = errors.New("missing required configuration")

type TestConfig struct {
	BaseURL         string
	AuthToken       string
	LoginEmail      string
	LoginPassword   string
	RequestTimeout  time.Duration
	LocalServer     bool
	SkipIntegration bool
	DebugLogging    bool
	LogRequests     bool
	LogResponses    bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// When API_BASE_URL is unset the suites run against an in-process server.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	loadEnvFile()

	baseURL := strings.TrimSpace(os.Getenv("API_BASE_URL"))

	config := &TestConfig{
		BaseURL:         baseURL,
		AuthToken:       strings.TrimSpace(os.Getenv("API_AUTH_TOKEN")),
		LoginEmail:      os.Getenv("API_LOGIN_EMAIL"),
		LoginPassword:   os.Getenv("API_LOGIN_PASSWORD"),
		RequestTimeout:  getDurationWithDefault("REQUEST_TIMEOUT", 30*time.Second),
		LocalServer:     baseURL == "",
		SkipIntegration: getBoolWithDefault("SKIP_INTEGRATION", false),
		DebugLogging:    getBoolWithDefault("DEBUG_LOGGING", false),
		LogRequests:     getBoolWithDefault("LOG_REQUESTS", false),
		LogResponses:    getBoolWithDefault("LOG_RESPONSES", false),
	}

	if config.DebugLogging {
		config.LogRequests = true
		config.LogResponses = true
	}

	// Validate required fields
	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// getDurationWithDefault gets a duration from environment variable or returns default.
func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// getBoolWithDefault gets a boolean from environment variable or returns default.
func getBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

func loadEnvFile() {
	envPaths := []string{
		"../../test/.env",    // From test/api directory
		"../../../test/.env", // From test/api/suites directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Load .env file, variables already in the environment take precedence
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
// A remote deployment needs either a token or a full set of credentials, the
// in-process server seeds its own.  Nothing is required when the suites are
// skipped.
func validateRequiredFields(config *TestConfig) error {
	if config.SkipIntegration || config.LocalServer || config.AuthToken != "" {
		return nil
	}

	var missing []string

	if config.LoginEmail == "" {
		missing = append(missing, "API_LOGIN_EMAIL")
	}

	if config.LoginPassword == "" {
		missing = append(missing, "API_LOGIN_PASSWORD")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (or API_AUTH_TOKEN). Please set these environment variables or add them to a .env file", ErrMissingConfiguration, strings.Join(missing, ", "))
	}

	return nil
}
