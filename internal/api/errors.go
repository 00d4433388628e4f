/*
 * Errors - HTTP error responses of the SiHealth API.
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
package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Detail is the "detail" field of a JSON error body, or "HTTP <status>".
	Detail string
	// Body is the error body if it was valid JSON.
	Body json.RawMessage
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Detail
}

// StatusCode returns the HTTP status carried by err, or 0 if err is not an
// APIError.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// newAPIError builds the error for a failed response. The detail field may
// be a plain string or, for validation errors, any JSON value.
func newAPIError(status int, body []byte) *APIError {
	e := &APIError{
		Status: status,
		Detail: fmt.Sprintf("HTTP %d", status),
	}
	var parsed map[string]json.RawMessage
	if len(body) == 0 || json.Unmarshal(body, &parsed) != nil {
		return e
	}
	e.Body = json.RawMessage(body)
	raw, ok := parsed["detail"]
	if !ok || string(raw) == "null" {
		return e
	}
	var detail string
	if err := json.Unmarshal(raw, &detail); err == nil {
		if detail != "" {
			e.Detail = detail
		}
		return e
	}
	e.Detail = string(raw)
	return e
}
