/*
 * Dashboard - dashboard and report commands.
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
	"time"

	"sihealth-console/internal/inventory"
	"sihealth-console/internal/render"

	"github.com/spf13/cobra"
)

var (
	dashboardPDF string

	reportStart string
	reportEnd   string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the stock indicators, charts and alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		summary, err := svc.Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		if dashboardPDF == "" {
			return render.WriteDashboard(cmd.OutOrStdout(), summary)
		}
		if err := writeFile(dashboardPDF, func(w io.Writer) error {
			return render.DashboardPDF(w, summary, time.Now())
		}); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "PDF saved to %s\n", dashboardPDF)
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:     "report",
	Aliases: []string{"relatorio"},
	Short:   "Download the general report of a period into REPORT_DIR",
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := inventory.ParseReportPeriod(reportStart, reportEnd)
		if err != nil {
			return err
		}
		svc, err := newService()
		if err != nil {
			return err
		}
		svc.SetProgressOutput(cmd.ErrOrStderr())
		path, err := svc.DownloadGeneralReport(cmd.Context(), period)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report saved to %s\n", path)
		return nil
	},
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardPDF, "pdf", "", "Write the dashboard as PDF to this file")

	reportCmd.Flags().StringVar(&reportStart, "inicio", "", "Start date (YYYY-MM-DD)")
	reportCmd.Flags().StringVar(&reportEnd, "fim", "", "End date (YYYY-MM-DD)")
	_ = reportCmd.MarkFlagRequired("inicio")
	_ = reportCmd.MarkFlagRequired("fim")
}
