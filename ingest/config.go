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


package ingest

import (
	"errors"
	"time"
)

const (
	// DefaultMaxRetries bounds re-ingestion of failed papers.
	DefaultMaxRetries = 3

	// DefaultSleepMin and DefaultSleepMax bound the randomized pause
	// between ingestion cycles.
	DefaultSleepMin = 1800 * time.Second
	DefaultSleepMax = 3600 * time.Second
)

// Config holds ingestion pipeline settings.
type Config struct {
	// PDFDir is where downloaded artifacts are stored, one file per paper id.
	PDFDir string

	// IndexDir is where per-paper index files are stored.
	IndexDir string

	// MaxRetries is the retry budget for failed papers. A failed paper
	// with RetryCount at or above this is permanently failed.
	MaxRetries int

	// SleepMin and SleepMax bound the randomized inter-cycle sleep.
	SleepMin time.Duration
	SleepMax time.Duration
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithPDFDir sets the artifact directory.
func WithPDFDir(dir string) ConfigOption {
	return func(c *Config) {
		c.PDFDir = dir
	}
}

// WithIndexDir sets the index directory.
func WithIndexDir(dir string) ConfigOption {
	return func(c *Config) {
		c.IndexDir = dir
	}
}

// WithMaxRetries sets the retry budget.
func WithMaxRetries(n int) ConfigOption {
	return func(c *Config) {
		c.MaxRetries = n
	}
}

// WithSleepRange sets the inter-cycle sleep bounds.
func WithSleepRange(min, max time.Duration) ConfigOption {
	return func(c *Config) {
		c.SleepMin = min
		c.SleepMax = max
	}
}

// DefaultConfig returns a Config with production defaults applied,
// then modified by any options.
func DefaultConfig(opts ...ConfigOption) *Config {
	c := &Config{
		PDFDir:     "paper_pdf",
		IndexDir:   "embedding_db",
		MaxRetries: DefaultMaxRetries,
		SleepMin:   DefaultSleepMin,
		SleepMax:   DefaultSleepMax,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks the configuration for usability.
func (c *Config) Validate() error {
	if c.PDFDir == "" {
		return errors.New("ingest: pdf directory is required")
	}
	if c.IndexDir == "" {
		return errors.New("ingest: index directory is required")
	}
	if c.MaxRetries < 0 {
		return errors.New("ingest: max retries cannot be negative")
	}
	if c.SleepMin <= 0 || c.SleepMax < c.SleepMin {
		return errors.New("ingest: sleep range must be positive with max >= min")
	}
	return nil
}
