/*
 * Serve - web console command.
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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sihealth-console/internal/server"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var (
	// notify requires the SIGINT and SIGTERM signals to be sent to the caller.
	notify = func(sig chan os.Signal) {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	}
)

// healthStatus is the interface used by waitForSignal.
type healthStatus interface {
	SetHealthy(bool)
	SetReady(bool)
}

// waitForSignal waits for a SIGTERM or a SIGINT and then marks the console as
// neither healthy nor ready.
func waitForSignal(status healthStatus) {
	exitSignal := make(chan os.Signal, 1)
	notify(exitSignal)
	signal := <-exitSignal

	log.Infof("Signal %s received. Shutting down the console.", signal.String())
	status.SetHealthy(false)
	status.SetReady(false)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web console",
	Long: `Serve the web console. The medication and batch tables are kept in
sync with the inventory API and exposed as JSON, along with the dashboard,
CSV and PDF exports, the general report and stock entries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		options, err := server.NewServerOptions()
		if err != nil {
			return err
		}

		// Start the metrics socket
		status := &server.Status{}
		log.Infof("Starting metrics, liveness and readiness server on %s", options.GetMetricsAddress())
		go server.NewMetricsSocket(status).Start(nil, *options)

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		console := server.NewConsole(svc, svc.NewTables())
		console.Attach(ctx)

		srv := server.NewHTTPServer(*options, console.Router())
		startedChan := make(chan struct{})
		errChan := make(chan error, 1)
		go func() {
			errChan <- server.Serve(srv, startedChan)
		}()

		// Wait for the console to start and then set the healthy and ready flags
		select {
		case <-startedChan:
		case err := <-errChan:
			return fmt.Errorf("cannot start the console: %w", err)
		}
		status.SetHealthy(true)
		status.SetReady(true)

		waitForSignal(status)

		server.Shutdown(srv, shutdownTimeout)
		cancel()
		console.Wait()
		return <-errChan
	},
}
