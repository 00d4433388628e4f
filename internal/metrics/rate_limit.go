/*
 * Rate limit - Rate limit headers
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
	"fmt"
	"net/http"
	"strconv"
)

const (
	rlLimit     = "Ratelimit-Limit"
	rlRemaining = "Ratelimit-Remaining"
	rlReset     = "Ratelimit-Reset"
)

// rateLimit contains the rate limits
type rateLimit struct {
	limit     int
	remaining int
	reset     uint64
}

// readHeader returns the value of a header or an error if it is missing.
func readHeader(h http.Header, name string) (string, error) {
	v := h.Get(name)
	if v == "" {
		return "", fmt.Errorf("header %s not found", name)
	}
	return v, nil
}

// readLimit reads the limit header.
func readLimit(h http.Header) (int, error) {
	v, err := readHeader(h, rlLimit)
	if err != nil {
		return 0, err
	}
	limit, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("header %s had unexpected value %q", rlLimit, v)
	}
	return limit, nil
}

// readRemaining reads the remaining requests header.
func readRemaining(h http.Header) (int, error) {
	v, err := readHeader(h, rlRemaining)
	if err != nil {
		return 0, err
	}
	remaining, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("header %s had unexpected value %q", rlRemaining, v)
	}
	return remaining, nil
}

// readReset reads the reset header.
func readReset(h http.Header) (uint64, error) {
	v, err := readHeader(h, rlReset)
	if err != nil {
		return 0, err
	}
	reset, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("header %s had unexpected value %q", rlReset, v)
	}
	return reset, nil
}

// parseRateLimits returns the rate limits.
func parseRateLimits(h http.Header) (*rateLimit, error) {
	limit, err := readLimit(h)
	if err != nil {
		return nil, err
	}
	remaining, err := readRemaining(h)
	if err != nil {
		return nil, err
	}
	reset, err := readReset(h)
	if err != nil {
		return nil, err
	}
	return &rateLimit{
		limit:     limit,
		remaining: remaining,
		reset:     reset,
	}, nil
}
