/*
 * Main - sihealth console command line.
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
	"os"

	"sihealth-console/internal/api"
	"sihealth-console/internal/inventory"

	"github.com/spf13/cobra"
)

var (
	Version = "local"
	Gitsha  = "?"
)

var rootCmd = &cobra.Command{
	Use:          "sihealth",
	Short:        "Pharmacy inventory console for the SiHealth API",
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = Version + " (" + Gitsha + ")"

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(medicationsCmd)
	rootCmd.AddCommand(batchesCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(usersCmd)
}

// newService reads the configuration from the environment, sets up logging
// and creates the inventory service.
func newService() (*inventory.Service, error) {
	cfg, err := inventory.NewConfiguration()
	if err != nil {
		return nil, err
	}
	cfg.SetupLogging()
	return inventory.NewService(cfg, api.WithUserAgent("sihealth-console/"+Version))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
