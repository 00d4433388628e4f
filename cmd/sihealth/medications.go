/*
 * Medications - medication and batch list commands.
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
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"sihealth-console/internal/datatable"
	"sihealth-console/internal/inventory"
	"sihealth-console/internal/render"

	"github.com/spf13/cobra"
)

// listFlags are the view parameters shared by the list commands.
type listFlags struct {
	page    int
	perPage int
	search  string
	sort    string
	csv     string
}

var (
	medicationsFlags listFlags
	medicationsPDF   string
	medicationsLocal string

	batchesFlags listFlags
)

// parseSort parses a comma separated list of "field[:asc|desc]" criteria.
func parseSort(value string) ([]datatable.SortItem, error) {
	items := []datatable.SortItem{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		field, dir, found := strings.Cut(part, ":")
		item := datatable.SortItem{Field: strings.TrimSpace(field), Direction: datatable.SortAsc}
		if found {
			item.Direction = strings.ToLower(strings.TrimSpace(dir))
		}
		if item.Field == "" {
			return nil, fmt.Errorf("missing sort field in %q", part)
		}
		if item.Direction != datatable.SortAsc && item.Direction != datatable.SortDesc {
			return nil, fmt.Errorf("invalid sort direction %q", dir)
		}
		items = append(items, item)
	}
	return items, nil
}

// patch builds the view parameters from the flags the user set. No flag
// means no query parameters.
func (f listFlags) patch(cmd *cobra.Command, svc *inventory.Service) (datatable.Patch, error) {
	flags := cmd.Flags()
	patch := datatable.Patch{}
	if flags.Changed("page") || flags.Changed("per-page") {
		page := f.page
		if !flags.Changed("page") {
			page = datatable.DefaultPage
		}
		patch = svc.PagePatch(page, f.perPage)
	}
	if flags.Changed("search") {
		patch = patch.WithSearch(f.search)
	}
	if flags.Changed("sort") {
		items, err := parseSort(f.sort)
		if err != nil {
			return patch, err
		}
		patch = patch.WithSortBy(items...)
	}
	return patch, nil
}

func addListFlags(cmd *cobra.Command, f *listFlags) {
	cmd.Flags().IntVar(&f.page, "page", datatable.DefaultPage, "Page to fetch, starting from 1")
	cmd.Flags().IntVar(&f.perPage, "per-page", 0, "Page size (default DEFAULT_PAGE_SIZE)")
	cmd.Flags().StringVar(&f.search, "search", "", "Search text sent to the API")
	cmd.Flags().StringVar(&f.sort, "sort", "", `Sort criteria, e.g. "nome:asc,fabricante:desc"`)
	cmd.Flags().StringVar(&f.csv, "csv", "", "Write the page as CSV to this file")
}

// writeFile creates path and writes into it with fn.
func writeFile(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	err = fn(f)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

var medicationsCmd = &cobra.Command{
	Use:     "medications",
	Aliases: []string{"medicamentos"},
	Short:   "List the registered medications",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		patch, err := medicationsFlags.patch(cmd, svc)
		if err != nil {
			return err
		}

		state := svc.ListMedications(cmd.Context(), patch)
		if state.Err != nil {
			return fmt.Errorf("cannot list medications: %w", state.Err)
		}
		items := state.Items
		total := state.Total
		if cmd.Flags().Changed("filter") {
			items = inventory.FilterMedications(items, medicationsLocal)
			total = len(items)
		}

		if medicationsFlags.csv != "" {
			if err := writeFile(medicationsFlags.csv, func(w io.Writer) error {
				return render.WriteMedicationsCSV(w, items)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CSV saved to %s\n", medicationsFlags.csv)
		}
		if medicationsPDF != "" {
			if err := writeFile(medicationsPDF, func(w io.Writer) error {
				return render.MedicationsPDF(w, items, time.Now())
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PDF saved to %s\n", medicationsPDF)
		}
		if medicationsFlags.csv != "" || medicationsPDF != "" {
			return nil
		}
		return render.WriteMedications(cmd.OutOrStdout(), items, total)
	},
}

var batchesCmd = &cobra.Command{
	Use:     "batches",
	Aliases: []string{"lotes"},
	Short:   "List the stock batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		patch, err := batchesFlags.patch(cmd, svc)
		if err != nil {
			return err
		}

		table := svc.NewBatchesTable(patch)
		table.FetchItems(cmd.Context())
		state := table.State()
		if state.Err != nil {
			return fmt.Errorf("cannot list batches: %w", state.Err)
		}

		if batchesFlags.csv != "" {
			if err := writeFile(batchesFlags.csv, func(w io.Writer) error {
				return render.WriteBatchesCSV(w, state.Items)
			}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "CSV saved to %s\n", batchesFlags.csv)
			return nil
		}
		return render.WriteBatches(cmd.OutOrStdout(), state.Items, state.Total)
	},
}

func init() {
	addListFlags(medicationsCmd, &medicationsFlags)
	medicationsCmd.Flags().StringVar(&medicationsPDF, "pdf", "", "Write the page as PDF to this file")
	medicationsCmd.Flags().StringVar(&medicationsLocal, "filter", "", "Filter the fetched page by name, active ingredient or manufacturer")

	addListFlags(batchesCmd, &batchesFlags)
}
