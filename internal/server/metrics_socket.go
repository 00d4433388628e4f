/*
 * Metrics socket - metrics, liveness and readiness endpoints.
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
	"net"
	"net/http"

	"sihealth-console/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// MetricsSocket represents the socket that serves the Open Metrics, as well as
// the liveness and readiness probes.
type MetricsSocket struct {
	status *Status
}

// NewMetricsSocket initializes a new MetricsSocket intance.
func NewMetricsSocket(status *Status) *MetricsSocket {
	return &MetricsSocket{
		status: status,
	}
}

// probe writes 200/OK if ok is true and 503/Service Unavailable otherwise.
func probe(w http.ResponseWriter, name string, ok bool) {
	var err error
	if ok {
		_, err = w.Write([]byte(http.StatusText(http.StatusOK)))
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, err = w.Write([]byte(http.StatusText(http.StatusServiceUnavailable)))
	}
	if err != nil {
		log.Warnf("Could not answer to a %s probe: %s", name, err.Error())
	}
}

// livenessHandler checks if the console is healthy.
func (s MetricsSocket) livenessHandler(w http.ResponseWriter, r *http.Request) {
	probe(w, "liveness", s.status.IsHealthy())
}

// readinessHandler checks if the console is ready.
func (s MetricsSocket) readinessHandler(w http.ResponseWriter, r *http.Request) {
	probe(w, "readiness", s.status.IsReady())
}

// healthzHandler checks if the console is live AND ready.
func (s MetricsSocket) healthzHandler(w http.ResponseWriter, r *http.Request) {
	probe(w, "healthz", s.status.IsHealthy() && s.status.IsReady())
}

// Handler returns the router of the socket.
func (s *MetricsSocket) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.readinessHandler)
	r.Get("/ready", s.readinessHandler)
	r.Get("/health", s.livenessHandler)
	r.Get("/healthz", s.healthzHandler)
	r.Handle("/metrics", promhttp.HandlerFor(
		metrics.GetOpenMetricsInstance().GetRegistry(),
		promhttp.HandlerOpts{},
	))
	return r
}

// Start starts the exposed endpoints server.
func (s *MetricsSocket) Start(startedChan chan struct{}, options ServerOptions) {
	address := options.GetMetricsAddress()

	srv := &http.Server{
		Addr:         address,
		Handler:      s.Handler(),
		ReadTimeout:  options.GetReadTimeout(),
		WriteTimeout: options.GetWriteTimeout(),
	}

	l, err := net.Listen("tcp", address)
	if err != nil {
		log.Fatal(err)
	}

	if startedChan != nil {
		startedChan <- struct{}{}
	}

	if err := srv.Serve(l); err != nil {
		log.Fatal(err)
	}
}
