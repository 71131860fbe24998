// Copyright 2025 The agentcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracing wraps one OpenTelemetry span per provider generate call.
// Callers that never configured a tracer provider still get a working
// no-op tracer, since otel.Tracer falls back to one by default.
package tracing

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/arkwright/agentcore/provider"

// StartGenerate opens a span for one provider.Generate call, tagged with
// provider, model, and a generated correlation id that ties this span to
// the log lines the same call emits. Callers must call the returned
// Span's End regardless of outcome; use Finish for the common
// success/error pattern.
func StartGenerate(ctx context.Context, provider, model string) (context.Context, trace.Span) {
	tracer := otel.Tracer(tracerName)
	return tracer.Start(ctx, "provider.generate",
		trace.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("model", model),
			attribute.String("generate_id", uuid.NewString()),
		),
	)
}

// Finish records err (if non-nil) and the finish reason on span, then ends
// it. Safe to call with a nil err.
func Finish(span trace.Span, finishReason string, err error) {
	defer span.End()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	if finishReason != "" {
		span.SetAttributes(attribute.String("finish_reason", finishReason))
	}
	span.SetStatus(codes.Ok, "")
}
