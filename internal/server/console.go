/*
 * Console - web console bound to the inventory tables.
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
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"sihealth-console/internal/api"
	"sihealth-console/internal/datatable"
	"sihealth-console/internal/inventory"
	"sihealth-console/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

const (
	contentTypeHeader        = "Content-Type"
	contentDispositionHeader = "Content-Disposition"
	contentLengthHeader      = "Content-Length"
	contentTypeJSON          = "application/json"
	contentTypePlaintext     = "text/plain; charset=utf-8"
	contentTypeCSV           = "text/csv; charset=utf-8"
	contentTypePDF           = "application/pdf"
	logFieldRequestPath      = "requestPath"
	logFieldRequestMethod    = "requestMethod"
	logFieldError            = "error"
)

// Inventory is the part of the inventory service used by the console.
type Inventory interface {
	Dashboard(ctx context.Context) (*inventory.DashboardSummary, error)
	ListMedications(ctx context.Context, initial datatable.Patch) datatable.State[inventory.Medication]
	OpenGeneralReport(ctx context.Context, period inventory.ReportPeriod) (*api.Download, error)
	RegisterEntry(ctx context.Context, entry inventory.Entry) (map[string]any, error)
}

// Console serves the inventory tables and pages over HTTP.
type Console struct {
	inventory Inventory
	tables    map[string]datatable.Table
	now       func() time.Time
}

// NewConsole creates a console over the given tables.
func NewConsole(inv Inventory, tables map[string]datatable.Table) *Console {
	return &Console{
		inventory: inv,
		tables:    tables,
		now:       time.Now,
	}
}

// Attach binds every table to ctx: option updates trigger a fetch until ctx
// is done.
func (c *Console) Attach(ctx context.Context) {
	for name, t := range c.tables {
		log.Debugf("Attaching table %s to %s", name, t.Endpoint())
		t.Attach(ctx)
	}
}

// Wait blocks until the fetches started by the tables have settled.
func (c *Console) Wait() {
	for _, t := range c.tables {
		t.Wait()
	}
}

// Router returns the console routes.
func (c *Console) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logRequests)

	r.Get("/tables/{name}", c.getTable)
	r.Patch("/tables/{name}/options", c.updateTableOptions)
	r.Post("/tables/{name}/refresh", c.refreshTable)
	r.Get("/dashboard", c.dashboard)
	r.Get("/dashboard.pdf", c.dashboardPDF)
	r.Get("/medications.csv", c.medicationsCSV)
	r.Get("/medications.pdf", c.medicationsPDF)
	r.Get("/reports/general", c.generalReport)
	r.Post("/entries", c.registerEntry)
	return r
}

func requestLog(r *http.Request) *log.Entry {
	return log.WithFields(log.Fields{logFieldRequestMethod: r.Method, logFieldRequestPath: r.URL.Path})
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		requestLog(r).Debugf("served %d in %s", ww.Status(), time.Since(start))
	})
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set(contentTypeHeader, contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		requestLog(r).WithField(logFieldError, err).Error("error encoding response")
	}
}

// writeError writes the error message as plain text.
func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	w.Header().Set(contentTypeHeader, contentTypePlaintext)
	w.WriteHeader(status)
	fmt.Fprint(w, err.Error())
	requestLog(r).WithField(logFieldError, err).Info("request failed")
}

// upstreamStatus maps an API failure to the console response status.
// Client errors are passed through, everything else is a bad gateway.
func upstreamStatus(err error) int {
	status := api.StatusCode(err)
	if status >= 400 && status < 500 {
		return status
	}
	return http.StatusBadGateway
}

func attachment(w http.ResponseWriter, contentType, filename string) {
	w.Header().Set(contentTypeHeader, contentType)
	w.Header().Set(contentDispositionHeader, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// table looks up the table named in the path. It writes 404 if there is no
// such table.
func (c *Console) table(w http.ResponseWriter, r *http.Request) (datatable.Table, bool) {
	name := chi.URLParam(r, "name")
	t, ok := c.tables[name]
	if !ok {
		writeError(w, r, http.StatusNotFound, fmt.Errorf("unknown table %q", name))
	}
	return t, ok
}

func (c *Console) getTable(w http.ResponseWriter, r *http.Request) {
	if t, ok := c.table(w, r); ok {
		writeJSON(w, r, http.StatusOK, t.Snapshot())
	}
}

// updateTableOptions merges the patch in the body into the table options.
// The fetch runs in the background, so the response is 202.
func (c *Console) updateTableOptions(w http.ResponseWriter, r *http.Request) {
	t, ok := c.table(w, r)
	if !ok {
		return
	}
	var patch datatable.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("error decoding options: %w", err))
		return
	}
	requestLog(r).Debugf("updating options of %s", t.Endpoint())
	t.UpdateOptions(patch)
	writeJSON(w, r, http.StatusAccepted, t.Snapshot())
}

func (c *Console) refreshTable(w http.ResponseWriter, r *http.Request) {
	if t, ok := c.table(w, r); ok {
		t.FetchItems(r.Context())
		writeJSON(w, r, http.StatusOK, t.Snapshot())
	}
}

func (c *Console) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := c.inventory.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	writeJSON(w, r, http.StatusOK, summary)
}

func (c *Console) dashboardPDF(w http.ResponseWriter, r *http.Request) {
	summary, err := c.inventory.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	attachment(w, contentTypePDF, "dashboard.pdf")
	if err := render.DashboardPDF(w, summary, c.now()); err != nil {
		requestLog(r).WithField(logFieldError, err).Error("error writing dashboard PDF")
	}
}

// medicationsPatch returns the view parameters of the medications table,
// overridden by the page, itemsPerPage and search query parameters.
func (c *Console) medicationsPatch(r *http.Request) (datatable.Patch, error) {
	patch := datatable.Patch{}
	if t, ok := c.tables[inventory.MedicationsTable]; ok {
		if s := t.Snapshot(); s.ParamsEnabled {
			patch = patch.
				WithPage(s.Options.Page).
				WithItemsPerPage(s.Options.ItemsPerPage).
				WithSortBy(s.Options.SortBy...).
				WithSearch(s.Options.Search)
		}
	}

	q := r.URL.Query()
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return patch, fmt.Errorf("invalid page %q", v)
		}
		patch = patch.WithPage(n)
	}
	if v := q.Get("itemsPerPage"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return patch, fmt.Errorf("invalid itemsPerPage %q", v)
		}
		patch = patch.WithItemsPerPage(n)
	}
	if q.Has("search") {
		patch = patch.WithSearch(q.Get("search"))
	}
	return patch, nil
}

// medications fetches the requested medication page. It writes the error
// response and returns false on failure.
func (c *Console) medications(w http.ResponseWriter, r *http.Request) ([]inventory.Medication, bool) {
	patch, err := c.medicationsPatch(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return nil, false
	}
	state := c.inventory.ListMedications(r.Context(), patch)
	if state.Err != nil {
		writeError(w, r, http.StatusBadGateway, fmt.Errorf("cannot list medications: %w", state.Err))
		return nil, false
	}
	return state.Items, true
}

func (c *Console) medicationsCSV(w http.ResponseWriter, r *http.Request) {
	items, ok := c.medications(w, r)
	if !ok {
		return
	}
	attachment(w, contentTypeCSV, "medicamentos.csv")
	if err := render.WriteMedicationsCSV(w, items); err != nil {
		requestLog(r).WithField(logFieldError, err).Error("error writing medications CSV")
	}
}

func (c *Console) medicationsPDF(w http.ResponseWriter, r *http.Request) {
	items, ok := c.medications(w, r)
	if !ok {
		return
	}
	attachment(w, contentTypePDF, "medicamentos.pdf")
	if err := render.MedicationsPDF(w, items, c.now()); err != nil {
		requestLog(r).WithField(logFieldError, err).Error("error writing medications PDF")
	}
}

// generalReport proxies the general report of the period given by the
// inicio and fim query parameters.
func (c *Console) generalReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, err := inventory.ParseReportPeriod(q.Get("inicio"), q.Get("fim"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	d, err := c.inventory.OpenGeneralReport(r.Context(), period)
	if err != nil {
		writeError(w, r, upstreamStatus(err), err)
		return
	}
	defer d.Body.Close()

	contentType := d.ContentType
	if contentType == "" {
		contentType = contentTypePDF
	}
	attachment(w, contentType, d.Filename)
	if d.ContentLength >= 0 {
		w.Header().Set(contentLengthHeader, strconv.FormatInt(d.ContentLength, 10))
	}
	if _, err := io.Copy(w, d.Body); err != nil {
		requestLog(r).WithField(logFieldError, err).Error("error proxying the general report")
	}
}

func (c *Console) registerEntry(w http.ResponseWriter, r *http.Request) {
	var entry inventory.Entry
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("error decoding entry: %w", err))
		return
	}
	result, err := c.inventory.RegisterEntry(r.Context(), entry)
	switch {
	case errors.Is(err, inventory.ErrInvalidEntry):
		writeError(w, r, http.StatusBadRequest, err)
	case err != nil:
		writeError(w, r, upstreamStatus(err), err)
	default:
		writeJSON(w, r, http.StatusCreated, result)
	}
}
