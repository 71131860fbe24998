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

// Package schema is a supplemental, type-safe convenience layer on top of
// the tool package: it generates a Tool's JSON Schema parameters from a Go
// struct and decodes a decoded-argument map back into that struct, so a
// handler never needs to touch map[string]any directly.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"
)

// FromStruct generates a JSON Schema object (top-level "type":"object") for
// T's exported fields, honoring `json` and `jsonschema` struct tags the same
// way the rest of the Go ecosystem does ("required", "description=...",
// "enum=a,enum=b", "minimum=N,maximum=M").
func FromStruct[T any]() (map[string]any, error) {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}

	schema := reflector.Reflect(new(T))

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal reflected schema: %w", err)
	}
	var full map[string]any
	if err := json.Unmarshal(data, &full); err != nil {
		return nil, fmt.Errorf("schema: unmarshal reflected schema: %w", err)
	}
	delete(full, "$schema")
	delete(full, "$id")

	if full["type"] != "object" {
		return full, nil
	}

	result := map[string]any{
		"type":       "object",
		"properties": full["properties"],
	}
	if required, ok := full["required"]; ok {
		result["required"] = required
	}
	if additional, ok := full["additionalProperties"]; ok {
		result["additionalProperties"] = additional
	}
	return result, nil
}

// Bind decodes a ToolCall.Function.Arguments mapping into a *T, using
// `mapstructure` tags (falling back to `json` tags is not attempted; name
// fields with `mapstructure:"..."` when the JSON schema name differs from
// the Go field name).
func Bind[T any](args map[string]any) (T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return out, fmt.Errorf("schema: build decoder: %w", err)
	}
	if err := dec.Decode(args); err != nil {
		return out, fmt.Errorf("schema: decode arguments: %w", err)
	}
	return out, nil
}
