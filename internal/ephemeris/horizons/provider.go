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
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/telemetry"
)

// HorizonsAPIURL is the JPL Horizons JSON API endpoint.
const HorizonsAPIURL = "https://ssd.jpl.nasa.gov/api/horizons.api"

// DefaultRequestTimeout bounds a single upstream fetch (spec §5 suggests 10s).
const DefaultRequestTimeout = 10 * time.Second

// HTTPProvider fetches and parses one body's state vector from a
// Horizons-shaped upstream API. It is "slow and rate-limited" per the spec,
// so all fetches share a process-wide token bucket rather than hammering the
// upstream with one simultaneous request per catalog entry on every refresh.
type HTTPProvider struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
	log     *telemetry.Logger
}

// NewHTTPProvider constructs a provider against baseURL (pass "" for the
// production endpoint). ratePerSecond/burst configure the shared limiter; a
// non-positive ratePerSecond disables limiting (unlimited), and a burst below
// 1 is raised to 1.
func NewHTTPProvider(baseURL string, ratePerSecond float64, burst int, log *telemetry.Logger) *HTTPProvider {
	if baseURL == "" {
		baseURL = HorizonsAPIURL
	}
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), burst)
	}
	return &HTTPProvider{
		client:  &http.Client{Timeout: DefaultRequestTimeout},
		baseURL: baseURL,
		limiter: limiter,
		log:     log,
	}
}

// Fetch implements Provider. It issues the fixed GET request shape from the
// spec (§4.2), then tries the structured and embedded-text parsers in turn.
func (p *HTTPProvider) Fetch(ctx context.Context, providerID, bodyName, correlationID string) (StateVector, error) {
	start := time.Now()

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return StateVector{}, &UpstreamError{
				Kind: UpstreamUnavailable, Body: bodyName, CorrelationID: correlationID,
				Elapsed: time.Since(start), Cause: fmt.Errorf("rate limiter wait: %w", err),
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	defer cancel()

	reqURL := p.baseURL + "?" + buildQuery(providerID).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return StateVector{}, p.fail(bodyName, correlationID, 0, start, "", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return StateVector{}, p.fail(bodyName, correlationID, 0, start, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StateVector{}, p.fail(bodyName, correlationID, resp.StatusCode, start, "", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return StateVector{}, p.fail(bodyName, correlationID, resp.StatusCode, start, string(body),
			fmt.Errorf("upstream returned status %d", resp.StatusCode))
	}

	sv, err := parseResponse(string(body), bodyName, correlationID)
	if err != nil {
		elapsed := time.Since(start)
		if upErr, ok := err.(*UpstreamError); ok {
			upErr.Status = resp.StatusCode
			upErr.Elapsed = elapsed
		}
		if p.log != nil {
			p.log.FetchError(correlationID, bodyName, resp.StatusCode, elapsed, err)
		}
		return StateVector{}, err
	}

	if p.log != nil {
		p.log.FetchOK(correlationID, bodyName, time.Since(start))
	}
	return sv, nil
}

func (p *HTTPProvider) fail(bodyName, correlationID string, status int, start time.Time, body string, cause error) error {
	elapsed := time.Since(start)
	if p.log != nil {
		p.log.FetchError(correlationID, bodyName, status, elapsed, cause)
	}
	return &UpstreamError{
		Kind:          UpstreamUnavailable,
		Body:          bodyName,
		Status:        status,
		BodySnippet:   truncate(body, maxSnippet),
		Elapsed:       elapsed,
		CorrelationID: correlationID,
		Cause:         cause,
	}
}

// buildQuery builds the fixed parameter set from spec §4.2: a heliocentric
// (CENTER="@0") vectors query, ecliptic J2000 frame, AU/day units, one-day
// step over a one-hour window starting now.
func buildQuery(providerID string) url.Values {
	now := time.Now().UTC()
	params := url.Values{}
	params.Set("format", "json")
	params.Set("COMMAND", fmt.Sprintf("'%s'", providerID))
	params.Set("EPHEM_TYPE", "VECTORS")
	params.Set("CENTER", "'@0'")
	params.Set("REF_PLANE", "ECLIPTIC")
	params.Set("REF_SYSTEM", "J2000")
	params.Set("OUT_UNITS", "AU-D")
	params.Set("VEC_TABLE", "2")
	params.Set("STEP_SIZE", "'1d'")
	params.Set("START_TIME", fmt.Sprintf("'%s'", now.Format("2006-01-02 15:04")))
	params.Set("STOP_TIME", fmt.Sprintf("'%s'", now.Add(time.Hour).Format("2006-01-02 15:04")))
	return params
}
