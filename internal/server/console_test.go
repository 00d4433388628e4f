/*
 * Console - unit tests.
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
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"sihealth-console/internal/api"
	"sihealth-console/internal/datatable"
	"sihealth-console/internal/inventory"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIURL      = "http://sihealth.test/api/v1"
	testAccountsURL = "http://sihealth.test"

	testMedicationsURL = testAPIURL + inventory.MedicationsEndpoint
	testBatchesURL     = testAPIURL + inventory.BatchesEndpoint
	testDashboardURL   = testAPIURL + "/dashboard/"
	testReportURL      = testAPIURL + "/relatorios/geral/pdf"
	testEntryURL       = testAPIURL + "/movimentacao/entrada"

	testMedicationsPage = `{"records":[{"nome":"Dipirona 500mg","fabricante":"Medley"}],"total":42}`
)

var testNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

// newTestConsole returns a console whose backend requests go to a mock
// transport.
func newTestConsole(t *testing.T) (*Console, *httpmock.MockTransport) {
	transport := httpmock.NewMockTransport()
	cfg := &inventory.Configuration{
		APIURL:          testAPIURL,
		AccountsURL:     testAccountsURL,
		RequestTimeout:  1000,
		DefaultPageSize: 10,
		ReportDir:       t.TempDir(),
	}
	svc, err := inventory.NewService(cfg, api.WithHTTPClient(&http.Client{Transport: transport}))
	require.NoError(t, err)
	c := NewConsole(svc, svc.NewTables())
	c.now = func() time.Time { return testNow }
	return c, transport
}

// queryRecorder records the query of the last request.
type queryRecorder struct {
	m     sync.Mutex
	query url.Values
}

func (q *queryRecorder) responder(status int, body string) httpmock.Responder {
	return func(req *http.Request) (*http.Response, error) {
		q.m.Lock()
		q.query = req.URL.Query()
		q.m.Unlock()
		return httpmock.NewStringResponse(status, body), nil
	}
}

func (q *queryRecorder) last() url.Values {
	q.m.Lock()
	defer q.m.Unlock()
	return q.query
}

func serve(c *Console, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(method, target, reader)
	c.Router().ServeHTTP(w, r)
	return w
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) datatable.Snapshot {
	var s datatable.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func Test_Console_getTable(t *testing.T) {
	c, transport := newTestConsole(t)

	w := serve(c, http.MethodGet, "/tables/medications", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypeJSON, w.Header().Get(contentTypeHeader))
	s := decodeSnapshot(t, w)
	assert.Equal(t, inventory.MedicationsEndpoint, s.Endpoint)
	assert.False(t, s.ParamsEnabled)
	assert.Equal(t, 0, s.Total)
	assert.Equal(t, datatable.Options{}, s.Options)

	w = serve(c, http.MethodGet, "/tables/prescriptions", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, `unknown table "prescriptions"`, w.Body.String())

	assert.Equal(t, 0, transport.GetTotalCallCount())
}

func Test_Console_updateTableOptions(t *testing.T) {
	type testCase struct {
		name     string
		table    string
		body     string
		status   int
		expected datatable.Options
	}

	run := func(t *testing.T, tc testCase) {
		c, transport := newTestConsole(t)
		w := serve(c, http.MethodPatch, "/tables/"+tc.table+"/options", tc.body)
		require.Equal(t, tc.status, w.Code)
		if tc.status != http.StatusAccepted {
			return
		}
		s := decodeSnapshot(t, w)
		assert.True(t, s.ParamsEnabled)
		assert.Equal(t, tc.expected, s.Options)
		// Not attached: nothing is fetched.
		assert.Equal(t, 0, transport.GetTotalCallCount())
	}

	testCases := []testCase{
		{
			name:   "page and size",
			table:  inventory.MedicationsTable,
			body:   `{"page":2,"itemsPerPage":5}`,
			status: http.StatusAccepted,
			expected: datatable.Options{
				Page:         2,
				ItemsPerPage: 5,
				SortBy:       []datatable.SortItem{},
			},
		},
		{
			name:   "sort and search",
			table:  inventory.BatchesTable,
			body:   `{"sortBy":[{"field":"data_validade","direction":"asc"}],"search":"dip"}`,
			status: http.StatusAccepted,
			expected: datatable.Options{
				Page:         1,
				ItemsPerPage: 10,
				SortBy:       []datatable.SortItem{{Field: "data_validade", Direction: datatable.SortAsc}},
				Search:       "dip",
			},
		},
		{
			name:   "malformed body",
			table:  inventory.MedicationsTable,
			body:   `{"page":`,
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown table",
			table:  "prescriptions",
			body:   `{}`,
			status: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Console_refreshTable(t *testing.T) {
	type testCase struct {
		name      string
		responder httpmock.Responder
		total     int
		err       bool
	}

	run := func(t *testing.T, tc testCase) {
		c, transport := newTestConsole(t)
		transport.RegisterResponder(http.MethodGet, testMedicationsURL, tc.responder)

		w := serve(c, http.MethodPost, "/tables/medications/refresh", "")
		require.Equal(t, http.StatusOK, w.Code)
		s := decodeSnapshot(t, w)
		assert.False(t, s.Loading)
		assert.Equal(t, tc.total, s.Total)
		assert.Equal(t, tc.err, s.Error != "")
		assert.Equal(t, 1, transport.GetTotalCallCount())
	}

	testCases := []testCase{
		{
			name:      "records",
			responder: httpmock.NewStringResponder(http.StatusOK, testMedicationsPage),
			total:     42,
		},
		{
			name:      "backend failure",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, `{"detail":"boom"}`),
			total:     0,
			err:       true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Console_Attach(t *testing.T) {
	c, transport := newTestConsole(t)
	medications := &queryRecorder{}
	transport.RegisterResponder(http.MethodGet, testMedicationsURL, medications.responder(http.StatusOK, testMedicationsPage))
	transport.RegisterResponder(http.MethodGet, testBatchesURL, httpmock.NewStringResponder(http.StatusOK, `[]`))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c.Attach(ctx)
	c.Wait()
	assert.Equal(t, 2, transport.GetTotalCallCount())
	assert.Empty(t, medications.last())

	w := serve(c, http.MethodPatch, "/tables/medications/options", `{"page":3}`)
	require.Equal(t, http.StatusAccepted, w.Code)
	c.Wait()

	assert.Equal(t, 3, transport.GetTotalCallCount())
	assert.Equal(t, "3", medications.last().Get("page"))
	assert.Equal(t, "10", medications.last().Get("itemsPerPage"))

	w = serve(c, http.MethodGet, "/tables/medications", "")
	s := decodeSnapshot(t, w)
	assert.Equal(t, 42, s.Total)
	assert.False(t, s.Loading)
}

func Test_Console_dashboard(t *testing.T) {
	type testCase struct {
		name      string
		responder httpmock.Responder
		status    int
		text      string
	}

	run := func(t *testing.T, tc testCase) {
		c, transport := newTestConsole(t)
		transport.RegisterResponder(http.MethodGet, testDashboardURL, tc.responder)

		w := serve(c, http.MethodGet, "/dashboard", "")
		require.Equal(t, tc.status, w.Code)
		if tc.status != http.StatusOK {
			assert.Equal(t, tc.text, w.Body.String())
			return
		}
		var summary inventory.DashboardSummary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
		assert.Equal(t, 3, summary.Metrics.LowStockItems)
		require.Len(t, summary.TopMedications, 1)
		assert.Equal(t, inventory.TopMedication{Name: "Dipirona", Quantity: 40}, summary.TopMedications[0])
		require.Len(t, summary.DispensationsByMonth, 1)
		assert.Equal(t, "1", summary.DispensationsByMonth[0].Month)
		assert.Empty(t, summary.LowStock)
	}

	testCases := []testCase{
		{
			name: "summary",
			responder: httpmock.NewStringResponder(http.StatusOK, `{
				"kpis": {"itens_baixo_estoque": 3, "total_itens_estoque": 100},
				"grafico_barras": [{"nome": "Dipirona", "total_saidas": 40}],
				"grafico_linha": [{"mes": 1, "quantidade": 30}]
			}`),
			status: http.StatusOK,
		},
		{
			name:      "backend not found",
			responder: httpmock.NewStringResponder(http.StatusNotFound, `{"detail":"Sem dados"}`),
			status:    http.StatusNotFound,
			text:      "cannot load the dashboard: Sem dados",
		},
		{
			name:      "backend failure",
			responder: httpmock.NewStringResponder(http.StatusServiceUnavailable, ``),
			status:    http.StatusBadGateway,
			text:      "cannot load the dashboard: HTTP 503",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Console_dashboardPDF(t *testing.T) {
	c, transport := newTestConsole(t)
	transport.RegisterResponder(http.MethodGet, testDashboardURL,
		httpmock.NewStringResponder(http.StatusOK, `{"kpis": {"itens_baixo_estoque": 3}}`))

	w := serve(c, http.MethodGet, "/dashboard.pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypePDF, w.Header().Get(contentTypeHeader))
	assert.Contains(t, w.Header().Get(contentDispositionHeader), "dashboard.pdf")
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func Test_Console_medicationsCSV(t *testing.T) {
	type testCase struct {
		name      string
		target    string
		responder httpmock.Responder
		status    int
		query     url.Values
		body      string
	}

	run := func(t *testing.T, tc testCase) {
		c, transport := newTestConsole(t)
		recorder := &queryRecorder{}
		if tc.responder == nil {
			tc.responder = recorder.responder(http.StatusOK, testMedicationsPage)
		}
		transport.RegisterResponder(http.MethodGet, testMedicationsURL, tc.responder)

		w := serve(c, http.MethodGet, tc.target, "")
		require.Equal(t, tc.status, w.Code)
		if tc.status != http.StatusOK {
			return
		}
		assert.Equal(t, contentTypeCSV, w.Header().Get(contentTypeHeader))
		assert.Equal(t, tc.query, recorder.last())
		assert.Equal(t, tc.body, w.Body.String())
	}

	const csv = "nome,fabricante,principio_ativo,dosagem,categoria,tarja,criado_em\n" +
		"Dipirona 500mg,Medley,,,,,\n"

	testCases := []testCase{
		{
			name:   "query parameters",
			target: "/medications.csv?page=2&itemsPerPage=5&search=dip",
			status: http.StatusOK,
			query: url.Values{
				"page":         {"2"},
				"itemsPerPage": {"5"},
				"sortBy":       {"[]"},
				"search":       {"dip"},
			},
			body: csv,
		},
		{
			name:   "no parameters",
			target: "/medications.csv",
			status: http.StatusOK,
			query:  url.Values{},
			body:   csv,
		},
		{
			name:   "invalid page",
			target: "/medications.csv?page=two",
			status: http.StatusBadRequest,
		},
		{
			name:      "backend failure",
			target:    "/medications.csv",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, ``),
			status:    http.StatusBadGateway,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Console_medicationsCSV_tableOptions(t *testing.T) {
	c, transport := newTestConsole(t)
	recorder := &queryRecorder{}
	transport.RegisterResponder(http.MethodGet, testMedicationsURL, recorder.responder(http.StatusOK, testMedicationsPage))

	w := serve(c, http.MethodPatch, "/tables/medications/options", `{"page":4,"search":"amox"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	w = serve(c, http.MethodGet, "/medications.csv?page=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", recorder.last().Get("page"))
	assert.Equal(t, "amox", recorder.last().Get("search"))
}

func Test_Console_medicationsPDF(t *testing.T) {
	c, transport := newTestConsole(t)
	transport.RegisterResponder(http.MethodGet, testMedicationsURL, httpmock.NewStringResponder(http.StatusOK, testMedicationsPage))

	w := serve(c, http.MethodGet, "/medications.pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, contentTypePDF, w.Header().Get(contentTypeHeader))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func Test_Console_generalReport(t *testing.T) {
	type testCase struct {
		name        string
		target      string
		status      int
		disposition string
		body        string
	}

	run := func(t *testing.T, tc testCase) {
		c, transport := newTestConsole(t)
		recorder := &queryRecorder{}
		transport.RegisterResponder(http.MethodGet, testReportURL, func(req *http.Request) (*http.Response, error) {
			resp, _ := recorder.responder(http.StatusOK, "%PDF-report")(req)
			resp.Header.Set("Content-Type", "application/pdf")
			resp.Header.Set("Content-Disposition", `attachment; filename="relatorio_janeiro.pdf"`)
			return resp, nil
		})

		w := serve(c, http.MethodGet, tc.target, "")
		require.Equal(t, tc.status, w.Code)
		if tc.status != http.StatusOK {
			assert.Equal(t, 0, transport.GetTotalCallCount())
			return
		}
		assert.Equal(t, tc.disposition, w.Header().Get(contentDispositionHeader))
		assert.Equal(t, tc.body, w.Body.String())
		assert.Equal(t, "2026-01-01", recorder.last().Get("inicio"))
		assert.Equal(t, "2026-01-31", recorder.last().Get("fim"))
	}

	testCases := []testCase{
		{
			name:        "proxied",
			target:      "/reports/general?inicio=2026-01-01&fim=2026-01-31",
			status:      http.StatusOK,
			disposition: "attachment; filename=relatorio_janeiro.pdf",
			body:        "%PDF-report",
		},
		{
			name:   "missing dates",
			target: "/reports/general",
			status: http.StatusBadRequest,
		},
		{
			name:   "end before start",
			target: "/reports/general?inicio=2026-01-31&fim=2026-01-01",
			status: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func Test_Console_registerEntry(t *testing.T) {
	type testCase struct {
		name      string
		body      string
		responder httpmock.Responder
		status    int
		calls     int
		text      string
	}

	run := func(t *testing.T, tc testCase) {
		c, transport := newTestConsole(t)
		if tc.responder != nil {
			transport.RegisterResponder(http.MethodPost, testEntryURL, tc.responder)
		}

		w := serve(c, http.MethodPost, "/entries", tc.body)
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.calls, transport.GetTotalCallCount())
		if tc.text != "" {
			assert.Equal(t, tc.text, strings.TrimSpace(w.Body.String()))
		}
	}

	testCases := []testCase{
		{
			name:      "registered",
			body:      `{"id_lote":7,"quantidade":20,"id_usuario":1,"fornecedor":"Medley"}`,
			responder: httpmock.NewStringResponder(http.StatusOK, `{"id_movimentacao":99}`),
			status:    http.StatusCreated,
			calls:     1,
			text:      `{"id_movimentacao":99}`,
		},
		{
			name:   "invalid entry",
			body:   `{"id_lote":7,"quantidade":0,"id_usuario":1}`,
			status: http.StatusBadRequest,
			calls:  0,
		},
		{
			name:   "malformed body",
			body:   `[`,
			status: http.StatusBadRequest,
			calls:  0,
		},
		{
			name:      "backend rejects",
			body:      `{"id_lote":404,"quantidade":1,"id_usuario":1}`,
			responder: httpmock.NewStringResponder(http.StatusNotFound, `{"detail":"Lote não encontrado"}`),
			status:    http.StatusNotFound,
			calls:     1,
			text:      "Lote não encontrado",
		},
		{
			name:      "backend failure",
			body:      `{"id_lote":7,"quantidade":1,"id_usuario":1}`,
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, ``),
			status:    http.StatusBadGateway,
			calls:     1,
			text:      "HTTP 500",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}
