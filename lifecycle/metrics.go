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

package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/algorand/go-certmint/data/basics"
	"github.com/algorand/go-certmint/serr"
	"github.com/algorand/go-certmint/util/metrics"
)

// Outcome labels of the workflows counter.
const (
	outcomeConfirmed     = "confirmed"
	outcomeRejected      = "rejected"
	outcomeTimeout       = "timeout"
	outcomeTransient     = "transient"
	outcomeConfiguration = "configuration"
	outcomeCancelled     = "cancelled"
	outcomeSkipped       = "skipped"
	outcomeError         = "error"
)

var roundBuckets = []float64{1, 2, 3, 4, 5, 7, 10, 15, 20, 30}

type workflowMetrics struct {
	workflows *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	fees      *prometheus.CounterVec
	topUps    *prometheus.CounterVec
	rounds    *prometheus.HistogramVec
}

func newWorkflowMetrics(reg prometheus.Registerer) (*workflowMetrics, error) {
	m := &workflowMetrics{
		workflows: metrics.NewCounterVec(metrics.WorkflowsTotal, "workflow", "outcome"),
		duration:  metrics.NewHistogramVec(metrics.WorkflowDurationSeconds, prometheus.DefBuckets, "workflow"),
		fees:      metrics.NewCounterVec(metrics.GroupFeesTotal, "workflow"),
		topUps:    metrics.NewCounterVec(metrics.TopUpsTotal, "workflow"),
		rounds:    metrics.NewHistogramVec(metrics.ConfirmationRounds, roundBuckets, "workflow"),
	}
	if err := metrics.Register(reg, m.workflows, m.duration, m.fees, m.topUps, m.rounds); err != nil {
		return nil, err
	}
	return m, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeConfirmed
	case errors.Is(err, ErrAlreadyOptedIn):
		return outcomeSkipped
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return outcomeCancelled
	}
	switch serr.KindOf(err) {
	case serr.KindRejection:
		return outcomeRejected
	case serr.KindTimeout:
		return outcomeTimeout
	case serr.KindTransient:
		return outcomeTransient
	case serr.KindConfiguration:
		return outcomeConfiguration
	}
	return outcomeError
}

func (m *workflowMetrics) finish(workflow string, start time.Time, err error) {
	m.workflows.WithLabelValues(workflow, outcome(err)).Inc()
	m.duration.WithLabelValues(workflow).Observe(time.Since(start).Seconds())
}

func (m *workflowMetrics) submitted(workflow string, fee basics.MicroAlgos) {
	m.fees.WithLabelValues(workflow).Add(float64(fee.Raw))
}

func (m *workflowMetrics) toppedUp(workflow string, amount uint64) {
	m.topUps.WithLabelValues(workflow).Add(float64(amount))
}

func (m *workflowMetrics) confirmed(workflow string, rounds basics.Round) {
	m.rounds.WithLabelValues(workflow).Observe(float64(rounds))
}
