// Copyright 2025 Tastetrail Authors
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


package openai

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/tastetrail/tastetrail/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// IntentParser implements ai.IntentParser using OpenAI-compatible chat APIs.
type IntentParser struct {
	client     llms.Model
	maxIntents int
	logger     *slog.Logger
}

// step is an internal type used for JSON unmarshaling.
// It matches the structure expected from the LLM.
type step struct {
	Keyword  string  `json:"keyword"`
	Locality *string `json:"locality"`
}

// parse is the wrapper structure for the LLM's JSON response.
type parse struct {
	Steps []step `json:"steps"`
}

// newIntentParser is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newIntentParser(config *ai.Config) (*IntentParser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Create OpenAI client configured for chat
	// Use "none" as token for local OpenAI-compatible services that don't require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ParserHost),
		openai.WithToken("none"),
		openai.WithModel(config.ParserModel),
	)
	if err != nil {
		return nil, err
	}

	return &IntentParser{
		client:     client,
		maxIntents: config.MaxIntents,
		logger:     slog.Default().With("component", "openai-parser"),
	}, nil
}

// NewIntentParser creates a new intent parser using the provided configuration.
//
// Returns ai.IntentParser interface to enforce abstraction.
func NewIntentParser(config *ai.Config) (ai.IntentParser, error) {
	return newIntentParser(config)
}

// ParseIntents splits a natural-language query into ordered search steps using an LLM.
func (p *IntentParser) ParseIntents(ctx context.Context, query string) ([]ai.Intent, error) {
	systemPrompt := buildSystemPrompt()
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(systemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(query),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var result parse
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := p.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			p.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			p.logger.Debug("no choices returned from model")
			return []ai.Intent{}, nil
		}

		choice := response.Choices[0]

		// Strip markdown code fences if present
		responseText := strings.TrimSpace(choice.Content)
		responseText = strings.TrimPrefix(responseText, "```json")
		responseText = strings.TrimPrefix(responseText, "```")
		responseText = strings.TrimSuffix(responseText, "```")
		responseText = strings.TrimSpace(responseText)

		// Try to repair common JSON issues
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &result); err != nil {
			lastErr = err
			p.logger.Warn("error parsing intent response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		// Success
		lastErr = nil
		break
	}

	if lastErr != nil {
		p.logger.Error("failed to parse intent response after retries", "err", lastErr)
		return nil, lastErr
	}

	intents := make([]ai.Intent, 0, len(result.Steps))
	for _, s := range result.Steps {
		keyword := strings.TrimSpace(s.Keyword)
		if keyword == "" {
			continue
		}
		locality := ""
		if s.Locality != nil {
			locality = strings.TrimSpace(*s.Locality)
		}
		intents = append(intents, ai.Intent{
			Keyword:  keyword,
			Locality: locality,
		})
	}

	if len(intents) > p.maxIntents {
		p.logger.Warn("parser returned too many steps, truncating",
			"steps", len(intents),
			"max", p.maxIntents)
		intents = intents[:p.maxIntents]
	}

	p.logger.Debug("parsed intents", "query", query, "steps", len(intents))
	return intents, nil
}
