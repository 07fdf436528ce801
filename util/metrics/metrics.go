// Copyright (C) 2019-2026 Algorand, Inc.
// This file is part of go-certmint
//
// go-certmint is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-certmint is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-certmint.  If not, see <https://www.gnu.org/licenses/>.

// Package metrics names the certmint metrics and builds them on the
// Prometheus client, and sets up OpenTelemetry tracing for the workflows.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every certmint metric.
const Namespace = "certmint"

// MetricName describes the name and description of a single metric
type MetricName struct {
	Name        string
	Description string
}

var (
	// WorkflowsTotal Number of workflows run, by workflow and outcome
	WorkflowsTotal = MetricName{Name: "workflows_total", Description: "Number of workflows run, by workflow and outcome"}
	// WorkflowDurationSeconds Time from building a workflow's group to its confirmation or failure
	WorkflowDurationSeconds = MetricName{Name: "workflow_duration_seconds", Description: "Time from building a workflow's group to its confirmation or failure"}
	// GroupFeesTotal Total fees, in microAlgos, of submitted groups
	GroupFeesTotal = MetricName{Name: "group_fees_microalgos_total", Description: "Total fees, in microAlgos, of submitted groups"}
	// TopUpsTotal Total minimum-balance top-up payments, in microAlgos
	TopUpsTotal = MetricName{Name: "topups_microalgos_total", Description: "Total minimum-balance top-up payments, in microAlgos"}
	// ConfirmationRounds Rounds observed between submission and confirmation
	ConfirmationRounds = MetricName{Name: "confirmation_rounds", Description: "Rounds observed between submission and confirmation"}
	// AccountPoolSize Funded accounts waiting in the pool
	AccountPoolSize = MetricName{Name: "account_pool_size", Description: "Funded accounts waiting in the pool"}
)

// NewCounterVec builds a labelled counter for metric.
func NewCounterVec(metric MetricName, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      metric.Name,
		Help:      metric.Description,
	}, labels)
}

// NewCounter builds an unlabelled counter for metric.
func NewCounter(metric MetricName) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      metric.Name,
		Help:      metric.Description,
	})
}

// NewHistogramVec builds a labelled histogram for metric.
func NewHistogramVec(metric MetricName, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      metric.Name,
		Help:      metric.Description,
		Buckets:   buckets,
	}, labels)
}

// NewGauge builds an unlabelled gauge for metric.
func NewGauge(metric MetricName) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      metric.Name,
		Help:      metric.Description,
	})
}

// Register adds collectors to reg. A nil reg leaves them unregistered. A
// collector that is already registered is not an error.
func Register(reg prometheus.Registerer, collectors ...prometheus.Collector) error {
	if reg == nil {
		return nil
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
