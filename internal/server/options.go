/*
 * Options - console and metrics socket options.
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
package server

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v8"
)

// ServerOptions contains the argument passed as environment variables that
// influence the console and the metrics socket.
type ServerOptions struct {
	// Console host
	ServerHost string `env:"SERVER_HOST" envDefault:"localhost"`
	// Console port
	ServerPort uint16 `env:"SERVER_PORT" envDefault:"8888"`
	// Metrics, readiness and liveness probe host
	MetricsHost string `env:"METRICS_HOST" envDefault:"0.0.0.0"`
	// Metrics, readiness and liveness probe port
	MetricsPort uint16 `env:"METRICS_PORT" envDefault:"8080"`
	// Read timeout in milliseconds
	ReadTimeout int `env:"READ_TIMEOUT" envDefault:"60000"`
	// Write timeout in milliseconds
	WriteTimeout int `env:"WRITE_TIMEOUT" envDefault:"60000"`
}

// NewServerOptions reads the options from the environment.
func NewServerOptions() (*ServerOptions, error) {
	o := &ServerOptions{}
	if err := env.Parse(o); err != nil {
		return nil, fmt.Errorf("reading server options failed: %w", err)
	}
	return o, nil
}

// GetServerAddress returns the console address as "host:port".
func (o ServerOptions) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", o.ServerHost, o.ServerPort)
}

// GetMetricsAddress returns the address of the metrics socket as
// "host:port".
func (o ServerOptions) GetMetricsAddress() string {
	return fmt.Sprintf("%s:%d", o.MetricsHost, o.MetricsPort)
}

// GetReadTimeout returns the read timeout.
func (o ServerOptions) GetReadTimeout() time.Duration {
	return time.Duration(o.ReadTimeout) * time.Millisecond
}

// GetWriteTimeout returns the write timeout.
func (o ServerOptions) GetWriteTimeout() time.Duration {
	return time.Duration(o.WriteTimeout) * time.Millisecond
}
