/*
 * Entries - unit tests.
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
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"sihealth-console/internal/api"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Entry_Validate(t *testing.T) {
	type testCase struct {
		name  string
		entry Entry
		err   bool
	}

	run := func(t *testing.T, tc testCase) {
		err := tc.entry.Validate()
		assertError(t, tc.err, err)
		if tc.err {
			assert.ErrorIs(t, err, ErrInvalidEntry)
		}
	}

	testCases := []testCase{
		{name: "valid", entry: Entry{BatchID: 1, Quantity: 10, UserID: 2}},
		{name: "valid with supplier", entry: Entry{BatchID: 1, Quantity: 10, UserID: 2, Supplier: "Medley"}},
		{name: "missing batch", entry: Entry{Quantity: 10, UserID: 2}, err: true},
		{name: "zero quantity", entry: Entry{BatchID: 1, UserID: 2}, err: true},
		{name: "negative quantity", entry: Entry{BatchID: 1, Quantity: -1, UserID: 2}, err: true},
		{name: "missing user", entry: Entry{BatchID: 1, Quantity: 10}, err: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Service_RegisterEntry(t *testing.T) {
	s, transport := newTestService(t)

	var sent map[string]any
	transport.RegisterResponder(http.MethodPost, testAPIURL+"/movimentacao/entrada",
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			if err := json.Unmarshal(body, &sent); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(http.StatusCreated, `{"id_entrada":9,"quantidade":10}`), nil
		})

	result, err := s.RegisterEntry(context.Background(), Entry{
		BatchID:  4,
		Quantity: 10,
		UserID:   1,
		Supplier: "  Medley ",
	})
	require.NoError(t, err)
	assert.Equal(t, float64(9), result["id_entrada"])
	assert.Equal(t, map[string]any{
		"id_lote":    float64(4),
		"quantidade": float64(10),
		"id_usuario": float64(1),
		"fornecedor": "Medley",
	}, sent)
}

func Test_Service_RegisterEntry_withoutSupplier(t *testing.T) {
	s, transport := newTestService(t)

	var sent map[string]any
	transport.RegisterResponder(http.MethodPost, testAPIURL+"/movimentacao/entrada",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&sent); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(http.StatusOK, `{}`), nil
		})

	_, err := s.RegisterEntry(context.Background(), Entry{BatchID: 4, Quantity: 1, UserID: 1})
	require.NoError(t, err)
	assert.NotContains(t, sent, "fornecedor")
}

func Test_Service_RegisterEntry_errors(t *testing.T) {
	t.Run("invalid entry is not sent", func(t *testing.T) {
		s, transport := newTestService(t)
		_, err := s.RegisterEntry(context.Background(), Entry{})
		assert.ErrorIs(t, err, ErrInvalidEntry)
		assert.Equal(t, 0, transport.GetTotalCallCount())
	})

	t.Run("backend detail", func(t *testing.T) {
		s, transport := newTestService(t)
		transport.RegisterResponder(http.MethodPost, testAPIURL+"/movimentacao/entrada",
			httpmock.NewStringResponder(http.StatusNotFound, `{"detail":"Lote não encontrado"}`))

		result, err := s.RegisterEntry(context.Background(), Entry{BatchID: 99, Quantity: 1, UserID: 1})
		assert.Nil(t, result)
		require.Error(t, err)
		assert.Equal(t, "Lote não encontrado", err.Error())

		var apiErr *api.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusNotFound, apiErr.Status)
		assert.JSONEq(t, `{"detail":"Lote não encontrado"}`, string(apiErr.Body))
	})
}
