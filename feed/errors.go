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


package feed

import (
	"errors"
	"fmt"
)

var (
	// ErrFetchFailed indicates the catalog page could not be retrieved.
	ErrFetchFailed = errors.New("feed: fetch failed")

	// ErrEmptyDocument indicates the fetched page had no content.
	ErrEmptyDocument = errors.New("feed: empty document")
)

// ParseError describes a failure to extract a paper entry from the
// catalog markup. Entries that fail to parse are skipped, not fatal.
type ParseError struct {
	// Index is the position of the entry in document order.
	Index int

	// Reason describes what was missing or malformed.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feed: entry %d unparseable: %s", e.Index, e.Reason)
}
