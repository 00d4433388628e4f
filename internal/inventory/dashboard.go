/*
 * Dashboard - dashboard summary.
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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// DashboardMetrics are the KPI cards.
type DashboardMetrics struct {
	LowStockItems        int `json:"lowStockItems"`
	NearExpiryItems      int `json:"nearExpiryItems"`
	TotalStockItems      int `json:"totalStockItems"`
	MonthlyDispensations int `json:"monthlyDispensations"`
}

// TopMedication is a bar of the most dispensed medications chart.
type TopMedication struct {
	Name     string `json:"nome"`
	Quantity int    `json:"quantidade"`
}

// MonthlyCount is a point of the dispensations per month chart.
type MonthlyCount struct {
	Month    string `json:"mes"`
	Quantity int    `json:"quantidade"`
}

// CriticalItem is a row of the near expiry and low stock tables.
type CriticalItem struct {
	Name     string `json:"nome"`
	Quantity int    `json:"quantidade"`
	Batch    string `json:"lote"`
	Expiry   string `json:"validade,omitempty"`
	Status   string `json:"status"`
}

// DashboardSummary is the dashboard as shown by the console.
type DashboardSummary struct {
	Metrics              DashboardMetrics `json:"metrics"`
	TopMedications       []TopMedication  `json:"topMedications"`
	DispensationsByMonth []MonthlyCount   `json:"dispensacoesPorMes"`
	NearExpiry           []CriticalItem   `json:"proximosAVencer"`
	LowStock             []CriticalItem   `json:"baixaQuantidade"`
}

// looseString decodes either a JSON string or a JSON number.
type looseString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

type backendKPIs struct {
	LowStock             int `json:"itens_baixo_estoque"`
	NearExpiry           int `json:"itens_prox_vencimento"`
	TotalStock           int `json:"total_itens_estoque"`
	MonthlyDispensations int `json:"dispensacoes_mensal"`
}

type backendTopMedication struct {
	Name           string `json:"nome"`
	TotalDispensed int    `json:"total_saidas"`
}

type backendMonthlyCount struct {
	Month    looseString `json:"mes"`
	Quantity int         `json:"quantidade"`
}

// backendAlertItem accepts both the numero_lote/validade and the
// lote/data_validade field names.
type backendAlertItem struct {
	MedicationName string `json:"nome_medicamento"`
	BatchNumber    string `json:"numero_lote"`
	Batch          string `json:"lote"`
	Quantity       int    `json:"quantidade"`
	Expiry         string `json:"validade"`
	ExpiryDate     string `json:"data_validade"`
	Status         string `json:"status"`
}

type backendDashboard struct {
	KPIs        backendKPIs            `json:"kpis"`
	BarChart    []backendTopMedication `json:"grafico_barras"`
	LineChart   []backendMonthlyCount  `json:"grafico_linha"`
	ExpiryTable []backendAlertItem     `json:"tabela_vencimento"`
	LowStock    []backendAlertItem     `json:"tabela_baixo_estoque"`
}

// Dashboard loads the dashboard summary.
func (s *Service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var data backendDashboard
	if err := s.api.GetJSON(ctx, dashboardEndpoint, nil, &data); err != nil {
		return nil, fmt.Errorf("cannot load the dashboard: %w", err)
	}
	summary := mapDashboard(data)
	return &summary, nil
}

// mapDashboard converts the backend response. Missing lists become empty.
func mapDashboard(data backendDashboard) DashboardSummary {
	summary := DashboardSummary{
		Metrics: DashboardMetrics{
			LowStockItems:        data.KPIs.LowStock,
			NearExpiryItems:      data.KPIs.NearExpiry,
			TotalStockItems:      data.KPIs.TotalStock,
			MonthlyDispensations: data.KPIs.MonthlyDispensations,
		},
		TopMedications:       make([]TopMedication, 0, len(data.BarChart)),
		DispensationsByMonth: make([]MonthlyCount, 0, len(data.LineChart)),
		NearExpiry:           mapAlertItems(data.ExpiryTable),
		LowStock:             mapAlertItems(data.LowStock),
	}
	for _, item := range data.BarChart {
		summary.TopMedications = append(summary.TopMedications, TopMedication{
			Name:     item.Name,
			Quantity: item.TotalDispensed,
		})
	}
	for _, item := range data.LineChart {
		summary.DispensationsByMonth = append(summary.DispensationsByMonth, MonthlyCount{
			Month:    string(item.Month),
			Quantity: item.Quantity,
		})
	}
	return summary
}

func mapAlertItems(items []backendAlertItem) []CriticalItem {
	result := make([]CriticalItem, 0, len(items))
	for _, item := range items {
		batch := item.BatchNumber
		if batch == "" {
			batch = item.Batch
		}
		expiry := item.Expiry
		if expiry == "" {
			expiry = item.ExpiryDate
		}
		result = append(result, CriticalItem{
			Name:     item.MedicationName,
			Quantity: item.Quantity,
			Batch:    batch,
			Expiry:   expiry,
			Status:   item.Status,
		})
	}
	return result
}
