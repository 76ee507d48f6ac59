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


package download

import "fmt"

// FetchError reports an exhausted download. It carries the attempt
// count and the last failure so callers can log a precise reason.
type FetchError struct {
	// URL is the artifact that could not be retrieved.
	URL string

	// Attempts is how many attempts were made before giving up.
	Attempts int

	// LastStatus is the HTTP status of the final attempt, or zero when
	// the final failure happened before a response arrived.
	LastStatus int

	// Err is the underlying error from the final attempt, if any.
	Err error
}

func (e *FetchError) Error() string {
	if e.LastStatus != 0 {
		return fmt.Sprintf("download: %s failed after %d attempts: status %d", e.URL, e.Attempts, e.LastStatus)
	}
	return fmt.Sprintf("download: %s failed after %d attempts: %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
