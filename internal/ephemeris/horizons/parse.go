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
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/units"
)

// structuredResponse matches the first of the two upstream response shapes:
// a JSON object carrying result.vectors[].
type structuredResponse struct {
	Result struct {
		Vectors []struct {
			X            string `json:"X"`
			Y            string `json:"Y"`
			Z            string `json:"Z"`
			VX           string `json:"VX"`
			VY           string `json:"VY"`
			VZ           string `json:"VZ"`
			CalendarDate string `json:"calendar_date"`
		} `json:"vectors"`
	} `json:"result"`
}

// textResponse matches the second shape: result is a free-form text blob
// containing a $$SOE/$$EOE fenced region.
type textResponse struct {
	Result string `json:"result"`
}

// numPattern accepts a signed mantissa with optional exponent, e.g.
// "1.234567890123456E+00" or "-3.45e-01".
var numPattern = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`)

var outputUnitsPattern = regexp.MustCompile(`(?i)Output units:\s*([A-Za-z0-9/_-]+)`)

// parseResponse tries the structured shape first, then the embedded-text
// shape, per the tagged-variant dispatch called for by the spec's parsing
// design note. It returns UpstreamMalformed if neither shape is recognizable.
func parseResponse(body string, bodyName string, correlationID string) (StateVector, error) {
	if sv, ok, err := parseStructured(body, bodyName); ok {
		if err != nil {
			return StateVector{}, malformed(bodyName, correlationID, body, err)
		}
		return sv, nil
	}
	if sv, ok, err := parseEmbeddedText(body, bodyName); ok {
		if err != nil {
			return StateVector{}, malformed(bodyName, correlationID, body, err)
		}
		return sv, nil
	}
	return StateVector{}, malformed(bodyName, correlationID, body, fmt.Errorf("neither structured nor embedded-text shape recognized"))
}

func malformed(bodyName, correlationID, body string, err error) error {
	return &UpstreamError{
		Kind:          UpstreamMalformed,
		Body:          bodyName,
		BodySnippet:   truncate(body, maxSnippet),
		CorrelationID: correlationID,
		Cause:         err,
	}
}

// parseStructured attempts the result.vectors[] JSON shape. ok=false means
// "not this shape, try the other one" rather than a hard failure.
func parseStructured(body string, bodyName string) (StateVector, bool, error) {
	var resp structuredResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return StateVector{}, false, nil
	}
	if len(resp.Result.Vectors) == 0 {
		return StateVector{}, false, nil
	}
	v := resp.Result.Vectors[0]
	x, errX := strconv.ParseFloat(strings.TrimSpace(v.X), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(v.Y), 64)
	z, errZ := strconv.ParseFloat(strings.TrimSpace(v.Z), 64)
	if errX != nil || errY != nil || errZ != nil || !finite3(x, y, z) {
		return StateVector{}, true, fmt.Errorf("structured response: X/Y/Z not finite numbers")
	}

	sv := StateVector{
		Body:      bodyName,
		X:         x,
		Y:         y,
		Z:         z,
		Frame:     ReferenceFrame,
		Source:    "horizons",
		Timestamp: parseCalendarDate(v.CalendarDate),
	}

	if strings.TrimSpace(v.VX) != "" {
		vx, errVX := strconv.ParseFloat(strings.TrimSpace(v.VX), 64)
		vy, errVY := strconv.ParseFloat(strings.TrimSpace(v.VY), 64)
		vz, errVZ := strconv.ParseFloat(strings.TrimSpace(v.VZ), 64)
		if errVX != nil || errVY != nil || errVZ != nil || !finite3(vx, vy, vz) {
			return StateVector{}, true, fmt.Errorf("structured response: VX/VY/VZ present but not finite numbers")
		}
		sv.Velocity = &[3]float64{vx, vy, vz}
	}
	return sv, true, nil
}

// parseEmbeddedText attempts the $$SOE/$$EOE fenced-text shape.
func parseEmbeddedText(body string, bodyName string) (StateVector, bool, error) {
	var resp textResponse
	text := body
	if err := json.Unmarshal([]byte(body), &resp); err == nil && resp.Result != "" {
		text = resp.Result
	}

	soe := strings.Index(text, "$$SOE")
	eoe := strings.Index(text, "$$EOE")
	if soe == -1 || eoe == -1 || soe >= eoe {
		return StateVector{}, false, nil
	}
	section := text[soe+len("$$SOE") : eoe]

	x, okX := firstLabeledNumber(section, "X")
	y, okY := firstLabeledNumber(section, "Y")
	z, okZ := firstLabeledNumber(section, "Z")
	if !okX || !okY || !okZ {
		return StateVector{}, true, fmt.Errorf("embedded-text response: missing X/Y/Z within $$SOE/$$EOE markers")
	}
	if !finite3(x, y, z) {
		return StateVector{}, true, fmt.Errorf("embedded-text response: X/Y/Z not finite")
	}

	kilometers := false
	if m := outputUnitsPattern.FindStringSubmatch(text); m != nil {
		kilometers = strings.Contains(strings.ToUpper(m[1]), "KM")
	}

	sv := StateVector{
		Body:      bodyName,
		Frame:     ReferenceFrame,
		Source:    "horizons",
		Timestamp: time.Now().UTC(),
	}

	if kilometers {
		sv.X, sv.Y, sv.Z = x/units.AUKm, y/units.AUKm, z/units.AUKm
	} else {
		sv.X, sv.Y, sv.Z = x, y, z
	}

	vx, okVX := firstLabeledNumber(section, "VX")
	vy, okVY := firstLabeledNumber(section, "VY")
	vz, okVZ := firstLabeledNumber(section, "VZ")
	if okVX && okVY && okVZ {
		if !finite3(vx, vy, vz) {
			return StateVector{}, true, fmt.Errorf("embedded-text response: VX/VY/VZ present but not finite")
		}
		if kilometers {
			// km/s -> AU/day
			scale := units.SecondsPerDay / units.AUKm
			vx, vy, vz = vx*scale, vy*scale, vz*scale
		}
		sv.Velocity = &[3]float64{vx, vy, vz}
	}

	return sv, true, nil
}

// firstLabeledNumber finds the first occurrence of "<label> = <num>" in s
// using a tolerant numeric pattern (signed mantissa, optional exponent).
// The label is word-boundary-anchored so "X" can't match inside "VX".
func firstLabeledNumber(s, label string) (float64, bool) {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(label) + `\s*=\s*(` + numPattern.String() + `)`)
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func finite3(a, b, c float64) bool {
	return !math.IsNaN(a) && !math.IsInf(a, 0) &&
		!math.IsNaN(b) && !math.IsInf(b, 0) &&
		!math.IsNaN(c) && !math.IsInf(c, 0)
}

// parseCalendarDate parses Horizons' "calendar_date" field, falling back to
// the current wall clock when absent or unparsable — the spec leaves the
// snapshot timestamp as "first body wins", and a malformed date shouldn't
// fail an otherwise-valid fetch.
func parseCalendarDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().UTC()
	}
	for _, layout := range []string{
		"2006-Jan-02 15:04:05.0000",
		"2006-Jan-02 15:04:05",
		"2006-Jan-02 15:04",
		time.RFC3339,
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
