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


package index

import (
	"errors"
	"fmt"
)

var (
	// ErrIndexNotFound indicates no persisted index exists for a paper.
	ErrIndexNotFound = errors.New("index: not found")

	// ErrEmptyText indicates there was no text to index.
	ErrEmptyText = errors.New("index: empty text")
)

// BuildError reports a failed index build, carrying the stage so logs
// can distinguish splitting, embedding and persistence failures.
type BuildError struct {
	PaperID string
	Stage   string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("index: building %s failed at %s: %v", e.PaperID, e.Stage, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
