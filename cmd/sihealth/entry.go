/*
 * Entry - stock entry and user commands.
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

	"sihealth-console/internal/inventory"
	"sihealth-console/internal/render"

	"github.com/spf13/cobra"
)

var (
	entry inventory.Entry

	newUser inventory.User
)

var entryCmd = &cobra.Command{
	Use:     "entry",
	Aliases: []string{"entrada"},
	Short:   "Register a stock entry for a batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := entry.Validate(); err != nil {
			return err
		}
		svc, err := newService()
		if err != nil {
			return err
		}
		if _, err := svc.RegisterEntry(cmd.Context(), entry); err != nil {
			return fmt.Errorf("cannot register the entry: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Entrada registrada com sucesso.")
		return nil
	},
}

var usersCmd = &cobra.Command{
	Use:     "users",
	Aliases: []string{"usuarios"},
	Short:   "List the registered users",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		users, err := svc.ListUsers(cmd.Context())
		if err != nil {
			return err
		}
		return render.WriteUsers(cmd.OutOrStdout(), users)
	},
}

var registerUserCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new user",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}
		message, err := svc.RegisterUser(cmd.Context(), newUser)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), message)
		return nil
	},
}

func init() {
	entryCmd.Flags().IntVar(&entry.BatchID, "lote", 0, "Batch id")
	entryCmd.Flags().IntVar(&entry.Quantity, "quantidade", 0, "Quantity received")
	entryCmd.Flags().IntVar(&entry.UserID, "usuario", 0, "Id of the user registering the entry")
	entryCmd.Flags().StringVar(&entry.Supplier, "fornecedor", "", "Supplier")

	registerUserCmd.Flags().StringVar(&newUser.Name, "nome", "", "Full name")
	registerUserCmd.Flags().StringVar(&newUser.Email, "email", "", "E-mail address")
	usersCmd.AddCommand(registerUserCmd)
}
