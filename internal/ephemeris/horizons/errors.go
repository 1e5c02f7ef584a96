// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
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

package horizons

import (
	"fmt"
	"time"
)

// ErrorKind distinguishes the two failure modes a fetch can hit.
type ErrorKind string

const (
	// UpstreamUnavailable covers transport errors and non-2xx responses.
	UpstreamUnavailable ErrorKind = "UpstreamUnavailable"
	// UpstreamMalformed covers a 2xx response neither parser shape can read.
	UpstreamMalformed ErrorKind = "UpstreamMalformed"
)

// maxSnippet bounds how much of an upstream body an error may carry, the same
// discipline persistence.truncate applies to logged Kafka payloads in the teacher.
const maxSnippet = 512

// UpstreamError is returned by Fetch on any failure. It always carries enough
// context (status, a bounded body snippet, elapsed time, correlation id) for
// the horizons_fetch_error event.
type UpstreamError struct {
	Kind          ErrorKind
	Body          string // internal catalog name, e.g. "earth"
	Status        int    // 0 if the request never got a response
	BodySnippet   string
	Elapsed       time.Duration
	CorrelationID string
	Cause         error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("horizons: %s fetching %s (status=%d, correlation=%s): %v", e.Kind, e.Body, e.Status, e.CorrelationID, e.Cause)
	}
	return fmt.Sprintf("horizons: %s fetching %s (status=%d, correlation=%s)", e.Kind, e.Body, e.Status, e.CorrelationID)
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
