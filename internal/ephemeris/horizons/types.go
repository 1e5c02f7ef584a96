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

// Package horizons implements the EphemerisProvider contract: fetching and
// parsing a single body's state vector from an upstream Horizons-shaped API.
package horizons

import (
	"context"
	"time"
)

// ReferenceFrame is the canonical frame every StateVector is expressed in.
const ReferenceFrame = "J2000-ECLIPTIC"

// StateVector is one body's position (and optional velocity) at one instant.
//
// Velocity is a pointer so "absent" is representable without NaN sentinels:
// per spec, if any velocity component is present and finite, all three must be.
type StateVector struct {
	Body      string
	X, Y, Z   float64    // AU
	Velocity  *[3]float64 // AU/day, nil if not reported upstream
	Frame     string
	Source    string
	Timestamp time.Time
}

// Provider is the abstract upstream ephemeris collaborator named in the spec.
// Implementations fetch one body's state vector given its provider identifier.
type Provider interface {
	Fetch(ctx context.Context, providerID, bodyName, correlationID string) (StateVector, error)
}
