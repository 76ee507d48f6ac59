package core

import (
	"errors"
	"testing"
)

func TestValidatePaper(t *testing.T) {
	tests := []struct {
		name    string
		paper   *Paper
		wantErr error
	}{
		{
			name: "valid paper",
			paper: &Paper{
				ID:     "2408.01234",
				Title:  "Attention Is Still All You Need",
				Status: StatusPending,
			},
			wantErr: nil,
		},
		{
			name: "valid paper without summary or topic",
			paper: &Paper{
				ID:     "2408.05678",
				Title:  "Some Paper",
				Status: StatusProcessing,
			},
			wantErr: nil,
		},
		{
			name:    "nil paper",
			paper:   nil,
			wantErr: ErrInvalidPaper,
		},
		{
			name:    "empty id",
			paper:   &Paper{Title: "Untitled", Status: StatusPending},
			wantErr: ErrEmptyPaperID,
		},
		{
			name:    "empty title",
			paper:   &Paper{ID: "2408.01234", Status: StatusPending},
			wantErr: ErrEmptyTitle,
		},
		{
			name:    "unknown status",
			paper:   &Paper{ID: "2408.01234", Title: "Untitled", Status: Status("archived")},
			wantErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePaper(tt.paper)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateSummary(t *testing.T) {
	full := func() *Summary {
		return &Summary{
			Title:      "Attention Is Still All You Need",
			ShortTitle: "Attention Redux",
			Topic:      "transformer architectures",
			Abstract:   []string{"point one", "point two"},
			Analysis:   "a short analysis",
			Conclusion: "a conclusion",
		}
	}

	if err := ValidateSummary(full()); err != nil {
		t.Fatalf("complete summary should validate: %v", err)
	}

	if err := ValidateSummary(nil); !errors.Is(err, ErrMissingSummaryField) {
		t.Fatalf("nil summary: expected ErrMissingSummaryField, got %v", err)
	}

	mutations := map[string]func(*Summary){
		"title":       func(s *Summary) { s.Title = "" },
		"short_title": func(s *Summary) { s.ShortTitle = "" },
		"topic":       func(s *Summary) { s.Topic = "" },
		"abstract":    func(s *Summary) { s.Abstract = nil },
		"analysis":    func(s *Summary) { s.Analysis = "" },
		"conclusion":  func(s *Summary) { s.Conclusion = "" },
	}

	for field, mutate := range mutations {
		t.Run(field, func(t *testing.T) {
			s := full()
			mutate(s)
			err := ValidateSummary(s)
			if !errors.Is(err, ErrMissingSummaryField) {
				t.Fatalf("expected ErrMissingSummaryField for %s, got %v", field, err)
			}
		})
	}
}
