/*
 * Configuration - console configuration
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package inventory

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v8"
	log "github.com/sirupsen/logrus"
)

const logFormatJSON = "json"

// Configuration contains the console's configuration.
type Configuration struct {
	// Base URL of the inventory API
	APIURL string `env:"SIHEALTH_API_URL" envDefault:"http://127.0.0.1:8000/api/v1"`
	// Base URL of the accounts API (users)
	AccountsURL string `env:"SIHEALTH_ACCOUNTS_URL" envDefault:"http://127.0.0.1:8000"`
	// Enable debugging logs
	Debug bool `env:"SIHEALTH_DEBUG" envDefault:"false"`
	// Log format: "text" or "json"
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	// Request timeout in milliseconds
	RequestTimeout int `env:"REQUEST_TIMEOUT" envDefault:"30000"`
	// Page size used when paging is requested without an explicit size
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"10"`
	// Directory where downloaded reports are saved
	ReportDir string `env:"REPORT_DIR" envDefault:"."`
}

// NewConfiguration creates a new configuration object.
func NewConfiguration() (*Configuration, error) {
	cfg := &Configuration{}

	// Populate with values from environment.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("reading configuration failed: %w", err)
	}

	if cfg.DefaultPageSize < 1 {
		return nil, fmt.Errorf("DEFAULT_PAGE_SIZE must be positive, got %d", cfg.DefaultPageSize)
	}

	return cfg, nil
}

// GetRequestTimeout returns the request timeout. A non-positive value
// disables it.
func (c Configuration) GetRequestTimeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return 0
	}
	return time.Duration(c.RequestTimeout) * time.Millisecond
}

// SetupLogging sets the log level and format.
func (c Configuration) SetupLogging() {
	var logLevel log.Level
	if c.Debug {
		logLevel = log.DebugLevel
	} else {
		logLevel = log.InfoLevel
	}
	log.SetLevel(logLevel)

	if c.LogFormat == logFormatJSON {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
