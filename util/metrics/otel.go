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

package metrics

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/algorand/go-certmint/logging"
)

// TracerName is the instrumentation scope of the workflow spans.
const TracerName = "github.com/algorand/go-certmint"

var (
	otelSetupOnce sync.Once
	otelProvider  *sdktrace.TracerProvider
)

// SetupTracing installs a global TracerProvider whose finished spans are
// written to log at debug level. Safe to call multiple times; only the first
// call takes effect.
func SetupTracing(log logging.Logger) *sdktrace.TracerProvider {
	otelSetupOnce.Do(func() {
		otelProvider = sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(logSpanProcessor{log: log}))
		otel.SetTracerProvider(otelProvider)
	})
	return otelProvider
}

// Tracer returns the workflow tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}

// logSpanProcessor logs each span when it ends.
type logSpanProcessor struct {
	log logging.Logger
}

func (p logSpanProcessor) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

func (p logSpanProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if !p.log.IsLevelEnabled(logging.Debug) {
		return
	}
	fields := logging.Fields{
		"span":     s.Name(),
		"trace":    s.SpanContext().TraceID().String(),
		"duration": s.EndTime().Sub(s.StartTime()).Round(time.Microsecond).String(),
		"status":   s.Status().Code.String(),
	}
	for _, kv := range s.Attributes() {
		fields[string(kv.Key)] = kv.Value.Emit()
	}
	if d := s.Status().Description; d != "" {
		fields["error"] = d
	}
	p.log.WithFields(fields).Debug("span ended")
}

func (p logSpanProcessor) Shutdown(context.Context) error   { return nil }
func (p logSpanProcessor) ForceFlush(context.Context) error { return nil }
