// Copyright 2026 Paper Reader Authors
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
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/paperreader/paperbot/ai"
	"github.com/paperreader/paperbot/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxSummaryChars caps how much paper text is sent to the model in one
// summarization request. Long papers are truncated, not split into multiple
// requests; the opening sections carry the signal the summary needs.
const maxSummaryChars = 48000

// truncateRunes caps s at limit bytes without splitting a multi-byte
// rune, so the request body stays valid UTF-8.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

// Summarizer implements ai.Summarizer using OpenAI-compatible chat APIs.
type Summarizer struct {
	client llms.Model
	logger *slog.Logger
}

// newSummarizer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSummarizer(config *ai.Config) (*Summarizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Summarizer{
		client: client,
		logger: slog.Default().With("component", "openai-summarizer"),
	}, nil
}

// NewSummarizer creates a new summarizer using the provided configuration.
//
// Returns ai.Summarizer interface to enforce abstraction.
func NewSummarizer(config *ai.Config) (ai.Summarizer, error) {
	return newSummarizer(config)
}

// Summarize generates a structured six-field summary of the paper text.
// The model response is parsed as JSON, with up to 3 attempts in case of
// malformed output, and validated for completeness before it is returned.
func (s *Summarizer) Summarize(ctx context.Context, title string, chunks []string) (*core.Summary, error) {
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: no text to summarize", ai.ErrMalformedResponse)
	}

	text := truncateRunes(strings.Join(chunks, "\n\n"), maxSummaryChars)

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSummaryPrompt(title)),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart("Please analyze and summarize the following text:\n\n" + text),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var summary core.Summary
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := s.client.GenerateContent(ctx, content, llms.WithTemperature(0.0), llms.WithJSONMode())
		if err != nil {
			s.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, err
		}

		if len(response.Choices) < 1 {
			s.logger.Debug("no choices returned from model")
			return nil, ai.ErrEmptyResponse
		}

		responseText := stripCodeFences(response.Choices[0].Content)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), &summary); err != nil {
			lastErr = err
			s.logger.Warn("error parsing summarizer response",
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
		s.logger.Error("failed to parse summarizer response after retries", "err", lastErr)
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, lastErr)
	}

	if err := core.ValidateSummary(&summary); err != nil {
		s.logger.Error("summarizer response incomplete", "err", err)
		return nil, err
	}

	s.logger.Debug("summarized paper", "title", title, "short_title", summary.ShortTitle)
	return &summary, nil
}
