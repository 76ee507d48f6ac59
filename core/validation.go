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


package core

import "fmt"

// ValidatePaper validates a Paper according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Title must not be empty
//   - Status must be one of the defined lifecycle states
//
// NOT validated (populated by the pipeline):
//   - Summary (nil until the paper completes)
//   - Topic (empty until the summary is posted)
//   - LocalPDF (empty until the artifact is downloaded)
func ValidatePaper(paper *Paper) error {
	if paper == nil {
		return fmt.Errorf("%w: paper is nil", ErrInvalidPaper)
	}

	if paper.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptyPaperID)
	}

	if paper.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidPaper, ErrEmptyTitle)
	}

	if !paper.Status.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidPaper, ErrInvalidStatus, paper.Status)
	}

	return nil
}

// ValidateSummary checks that every required summary field is present.
// The summarizer contract requires all six named fields; a response missing
// any of them is a malformed-input failure, not a usable summary.
func ValidateSummary(summary *Summary) error {
	if summary == nil {
		return fmt.Errorf("%w: summary is nil", ErrMissingSummaryField)
	}

	fields := []struct {
		name  string
		empty bool
	}{
		{"title", summary.Title == ""},
		{"short_title", summary.ShortTitle == ""},
		{"topic", summary.Topic == ""},
		{"abstract", len(summary.Abstract) == 0},
		{"analysis", summary.Analysis == ""},
		{"conclusion", summary.Conclusion == ""},
	}
	for _, f := range fields {
		if f.empty {
			return fmt.Errorf("%w: %s", ErrMissingSummaryField, f.name)
		}
	}

	return nil
}
