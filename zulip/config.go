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


package zulip

import "errors"

// DefaultStream is the stream summaries are posted to.
const DefaultStream = "Paper_Reader"

// Config holds Zulip connection settings. Site is the realm base URL,
// Email/APIKey the bot credentials.
type Config struct {
	Site   string
	Email  string
	APIKey string
	Stream string
}

// ConfigOption configures a Config.
type ConfigOption func(*Config)

// WithSite sets the realm base URL.
func WithSite(site string) ConfigOption {
	return func(c *Config) {
		c.Site = site
	}
}

// WithCredentials sets the bot email and API key.
func WithCredentials(email, apiKey string) ConfigOption {
	return func(c *Config) {
		c.Email = email
		c.APIKey = apiKey
	}
}

// WithStream overrides the target stream.
func WithStream(stream string) ConfigOption {
	return func(c *Config) {
		c.Stream = stream
	}
}

// DefaultConfig returns a Config with defaults applied, then modified
// by any options.
func DefaultConfig(opts ...ConfigOption) *Config {
	c := &Config{
		Stream: DefaultStream,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Validate checks that the configuration is complete enough to talk to
// a Zulip realm.
func (c *Config) Validate() error {
	if c.Site == "" {
		return errors.New("zulip: site is required")
	}
	if c.Email == "" {
		return errors.New("zulip: bot email is required")
	}
	if c.APIKey == "" {
		return errors.New("zulip: api key is required")
	}
	if c.Stream == "" {
		return errors.New("zulip: stream is required")
	}
	return nil
}
