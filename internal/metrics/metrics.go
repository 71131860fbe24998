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

// Package metrics is the supplemental Prometheus observability surface for
// the agent loop: a step counter, a tool-call counter, a token-usage
// histogram, and a summarization counter. Every method is a no-op on a nil
// *Metrics, so callers that don't want metrics can pass nil throughout.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the agent loop's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	steps          *prometheus.CounterVec
	toolCalls      *prometheus.CounterVec
	toolErrors     *prometheus.CounterVec
	tokenUsage     *prometheus.HistogramVec
	summarizations *prometheus.CounterVec
	retries        *prometheus.CounterVec
}

// New creates a Metrics instance registered under namespace (e.g.
// "agentcore"). Pass "" to use no namespace prefix.
func New(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.steps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "agent",
		Name:      "steps_total",
		Help:      "Total number of agent loop steps executed",
	}, []string{"provider"})

	m.toolCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tool",
		Name:      "calls_total",
		Help:      "Total number of tool invocations",
	}, []string{"tool_name"})

	m.toolErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "tool",
		Name:      "errors_total",
		Help:      "Total number of failed tool invocations",
	}, []string{"tool_name"})

	m.tokenUsage = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "llm",
		Name:      "tokens_total",
		Help:      "Token usage reported per generate call",
		Buckets:   prometheus.ExponentialBuckets(64, 2, 12),
	}, []string{"provider", "model"})

	m.summarizations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "summarizer",
		Name:      "compressions_total",
		Help:      "Total number of successful context compressions",
	}, []string{})

	m.retries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "provider",
		Name:      "retries_total",
		Help:      "Total number of provider call retries observed",
	}, []string{"provider"})

	m.registry.MustRegister(m.steps, m.toolCalls, m.toolErrors, m.tokenUsage, m.summarizations, m.retries)
	return m
}

// Registry exposes the Prometheus registry for wiring into an HTTP handler.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordStep increments the step counter for provider.
func (m *Metrics) RecordStep(provider string) {
	if m == nil {
		return
	}
	m.steps.WithLabelValues(provider).Inc()
}

// RecordToolCall records one tool invocation and whether it failed.
func (m *Metrics) RecordToolCall(toolName string, success bool) {
	if m == nil {
		return
	}
	m.toolCalls.WithLabelValues(toolName).Inc()
	if !success {
		m.toolErrors.WithLabelValues(toolName).Inc()
	}
}

// RecordTokenUsage observes a provider call's total token count.
func (m *Metrics) RecordTokenUsage(provider, model string, totalTokens int) {
	if m == nil {
		return
	}
	m.tokenUsage.WithLabelValues(provider, model).Observe(float64(totalTokens))
}

// RecordSummarization increments the successful-compression counter.
func (m *Metrics) RecordSummarization() {
	if m == nil {
		return
	}
	m.summarizations.WithLabelValues().Inc()
}

// RecordRetry increments the retry-observed counter for provider. Intended
// to be wired as a provider.Dispatcher's RetryCallback.
func (m *Metrics) RecordRetry(provider string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(provider).Inc()
}
