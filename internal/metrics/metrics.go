/*
 * Metrics - OpenMetrics implementation.
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
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// metrics instance
var (
	metrics     *OpenMetrics
	metricsLock sync.Mutex
)

type OpenMetrics struct {
	registry *prometheus.Registry

	successfulApiCallsTotal *prometheus.CounterVec
	failedApiCallsTotal     *prometheus.CounterVec
	apiDelayHist            *prometheus.HistogramVec

	discardedResponsesTotal *prometheus.CounterVec

	rateLimitLimit     prometheus.Gauge
	rateLimitRemaining prometheus.Gauge
	rateLimitReset     prometheus.Gauge
}

// GetOpenMetricsInstance returns the current OpenMetrics instance or creates a
// new one if required.
func GetOpenMetricsInstance() *OpenMetrics {
	metricsLock.Lock()
	defer metricsLock.Unlock()
	if metrics == nil {
		reg := prometheus.NewRegistry()
		metrics = &OpenMetrics{
			registry: reg,
			successfulApiCallsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "successful_api_calls_total",
					Help: "The number of successful SiHealth API calls",
				},
				[]string{"action"},
			),
			failedApiCallsTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "failed_api_calls_total",
					Help: "The number of SiHealth API calls that returned an error",
				},
				[]string{"action"},
			),
			apiDelayHist: prometheus.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "api_delay_hist",
					Help:    "Histogram of the delay in milliseconds when calling the SiHealth API",
					Buckets: []float64{10, 100, 250, 500, 1000, 1500, 2000},
				},
				[]string{"action"},
			),
			discardedResponsesTotal: prometheus.NewCounterVec(
				prometheus.CounterOpts{
					Name: "discarded_responses_total",
					Help: "The number of list responses dropped because a newer request was issued",
				},
				[]string{"endpoint"},
			),
			rateLimitLimit: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "ratelimit_limit",
				Help: "The request limit announced by the API",
			}),
			rateLimitRemaining: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "ratelimit_remaining",
				Help: "The remaining requests announced by the API",
			}),
			rateLimitReset: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "ratelimit_reset",
				Help: "The rate limit reset time announced by the API",
			}),
		}
		reg.MustRegister(metrics.successfulApiCallsTotal)
		reg.MustRegister(metrics.failedApiCallsTotal)
		reg.MustRegister(metrics.apiDelayHist)
		reg.MustRegister(metrics.discardedResponsesTotal)
		reg.MustRegister(metrics.rateLimitLimit)
		reg.MustRegister(metrics.rateLimitRemaining)
		reg.MustRegister(metrics.rateLimitReset)
	}
	return metrics
}

// getLabels builds the label map.
func getLabels(action string) prometheus.Labels {
	return prometheus.Labels{"action": action}
}

// GetRegistry returns the registry the metrics are registered to.
func (m *OpenMetrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// IncSuccessfulApiCallsTotal increments the successful_api_calls_total counter.
func (m *OpenMetrics) IncSuccessfulApiCallsTotal(action string) {
	m.successfulApiCallsTotal.With(getLabels(action)).Inc()
}

// IncFailedApiCallsTotal increments the failed_api_calls_total counter.
func (m *OpenMetrics) IncFailedApiCallsTotal(action string) {
	m.failedApiCallsTotal.With(getLabels(action)).Inc()
}

// AddApiDelayHist records the delay of an API call.
func (m *OpenMetrics) AddApiDelayHist(action string, delay int64) {
	m.apiDelayHist.With(getLabels(action)).Observe(float64(delay))
}

// IncDiscardedResponsesTotal increments the discarded_responses_total counter.
func (m *OpenMetrics) IncDiscardedResponsesTotal(endpoint string) {
	m.discardedResponsesTotal.With(prometheus.Labels{"endpoint": endpoint}).Inc()
}

// SetRateLimits updates the rate limit gauges from the response headers.
// Responses without rate limit headers are ignored.
func (m *OpenMetrics) SetRateLimits(h http.Header) {
	if h.Get(rlLimit) == "" {
		return
	}
	rl, err := parseRateLimits(h)
	if err != nil {
		log.Debugf("Cannot read rate limit headers: %v", err)
		return
	}
	m.rateLimitLimit.Set(float64(rl.limit))
	m.rateLimitRemaining.Set(float64(rl.remaining))
	m.rateLimitReset.Set(float64(rl.reset))
}
