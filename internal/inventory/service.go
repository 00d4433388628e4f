/*
 * Service - access to the SiHealth inventory and accounts APIs.
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
	"io"
	"os"

	"sihealth-console/internal/api"
	"sihealth-console/internal/datatable"

	log "github.com/sirupsen/logrus"
)

// Endpoints of the inventory API.
const (
	MedicationsEndpoint   = "/medicamentos/"
	BatchesEndpoint       = "/lotes/"
	dashboardEndpoint     = "/dashboard/"
	entryEndpoint         = "/movimentacao/entrada"
	generalReportEndpoint = "/relatorios/geral/pdf"
)

// Endpoints of the accounts API.
const (
	usersEndpoint    = "/usuarios"
	registerEndpoint = "/cadastro"
)

// Table names used by the console.
const (
	MedicationsTable = "medications"
	BatchesTable     = "batches"
)

// Service groups the operations of the console.
type Service struct {
	config   Configuration
	api      *api.Client
	accounts *api.Client
	progress io.Writer
}

// NewService creates a new Service. The options are applied to both the
// inventory and the accounts clients.
func NewService(config *Configuration, opts ...api.Option) (*Service, error) {
	clientOpts := append([]api.Option{api.WithTimeout(config.GetRequestTimeout())}, opts...)

	apiClient, err := api.NewClient(config.APIURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create the inventory client: %w", err)
	}
	accountsClient, err := api.NewClient(config.AccountsURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("cannot create the accounts client: %w", err)
	}

	log.Debugf("Using inventory API at %s and accounts API at %s", apiClient.BaseURL(), accountsClient.BaseURL())

	return &Service{
		config:   *config,
		api:      apiClient,
		accounts: accountsClient,
		progress: os.Stderr,
	}, nil
}

// SetProgressOutput sets where the download progress bar is written.
func (s *Service) SetProgressOutput(w io.Writer) {
	s.progress = w
}

// Config returns the configuration of the service.
func (s *Service) Config() Configuration {
	return s.config
}

// PagePatch returns the view parameters for an explicit page request. A
// non-positive size is replaced by the configured default page size.
func (s *Service) PagePatch(page, itemsPerPage int) datatable.Patch {
	if itemsPerPage < 1 {
		itemsPerPage = s.config.DefaultPageSize
	}
	return datatable.Patch{}.WithPage(page).WithItemsPerPage(itemsPerPage)
}

// NewTables creates one collection per console table. No query parameters
// are sent until the first options update.
func (s *Service) NewTables() map[string]datatable.Table {
	return map[string]datatable.Table{
		MedicationsTable: s.NewMedicationsTable(datatable.Patch{}),
		BatchesTable:     s.NewBatchesTable(datatable.Patch{}),
	}
}
