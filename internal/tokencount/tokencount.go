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

// Package tokencount implements the countTokens collaborator the summarizer
// depends on: a cached tiktoken-go encoder with a GPT-4-compatible fallback.
package tokencount

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

var (
	cacheMu  sync.RWMutex
	encCache = make(map[string]*tiktoken.Tiktoken)
)

// Counter counts tokens under a single cached encoding.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter returns a Counter for model, falling back to cl100k_base when
// model has no registered encoding (covers Anthropic/Gemini model names,
// which tiktoken doesn't know about natively).
func NewCounter(model string) (*Counter, error) {
	cacheMu.RLock()
	cached, ok := encCache[model]
	cacheMu.RUnlock()
	if ok {
		return &Counter{encoding: cached}, nil
	}

	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	cacheMu.Lock()
	encCache[model] = enc
	cacheMu.Unlock()

	return &Counter{encoding: enc}, nil
}

// Count returns the token count for text, 0 for empty input.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(c.encoding.Encode(text, nil, nil))
}
