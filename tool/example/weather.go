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

package example

import (
	"context"
	"fmt"

	"github.com/arkwright/agentcore/message"
	"github.com/arkwright/agentcore/tool"
	"github.com/arkwright/agentcore/tool/schema"
)

// WeatherArgs is the weather tool's input shape.
type WeatherArgs struct {
	City  string `json:"city" jsonschema:"required,description=City name"`
	Units string `json:"units,omitempty" jsonschema:"description=Temperature units,default=celsius,enum=celsius,enum=fahrenheit"`
}

// weatherReport is canned per-city data: no network call is made.
var weatherReport = map[string]struct {
	TempC     int
	Condition string
}{
	"beijing":       {22, "sunny"},
	"san francisco": {16, "foggy"},
	"london":        {14, "rainy"},
	"tokyo":         {26, "humid"},
}

const defaultCondition = "clear"

// Weather is a pure, network-free tool returning canned weather data — a
// stand-in for a real weather API in demos and tests.
type Weather struct {
	tool.SchemaViews
}

// NewWeather builds a Weather tool with its schema derived from WeatherArgs.
func NewWeather() (*Weather, error) {
	params, err := schema.FromStruct[WeatherArgs]()
	if err != nil {
		return nil, err
	}
	return &Weather{SchemaViews: tool.SchemaViews{
		ToolName:        "get_weather",
		ToolDescription: "Get current weather for a city",
		ToolParameters:  params,
	}}, nil
}

// Execute looks up args.City in a small fixed table, defaulting to a
// generic report for any city it doesn't recognize.
func (w *Weather) Execute(ctx context.Context, args map[string]any) (message.ToolResult, error) {
	a, err := schema.Bind[WeatherArgs](args)
	if err != nil {
		return message.ToolResult{}, err
	}
	if a.City == "" {
		return message.ToolResult{Success: false, Error: "city is required"}, nil
	}
	units := a.Units
	if units == "" {
		units = "celsius"
	}

	tempC, condition := 20, defaultCondition
	if report, ok := weatherReport[normalize(a.City)]; ok {
		tempC, condition = report.TempC, report.Condition
	}

	temp := tempC
	if units == "fahrenheit" {
		temp = tempC*9/5 + 32
	}

	return message.ToolResult{
		Success: true,
		Content: fmt.Sprintf("%s: %d°%s, %s", a.City, temp, unitSymbol(units), condition),
	}, nil
}

func unitSymbol(units string) string {
	if units == "fahrenheit" {
		return "F"
	}
	return "C"
}

func normalize(city string) string {
	out := make([]rune, 0, len(city))
	for _, r := range city {
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		out = append(out, r)
	}
	return string(out)
}
