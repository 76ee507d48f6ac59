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


package qa

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownThread indicates the topic is not bound to any paper.
	ErrUnknownThread = errors.New("qa: unknown thread")

	// ErrIndexNotReady indicates the paper exists but has no usable
	// index, typically because ingestion has not completed.
	ErrIndexNotReady = errors.New("qa: index not ready")
)

// CorrelationError reports a failure to correlate a conversation topic
// with an answerable paper. It wraps one of the sentinel reasons above.
type CorrelationError struct {
	Topic  string
	Reason error
}

func (e *CorrelationError) Error() string {
	return fmt.Sprintf("%v: topic %q", e.Reason, e.Topic)
}

func (e *CorrelationError) Unwrap() error {
	return e.Reason
}
