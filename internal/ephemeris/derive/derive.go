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

// Package derive holds pure, referentially transparent math over a Snapshot:
// magnitudes, unit conversions, light-time, ecliptic angles, and linear
// drift. Nothing here performs I/O or returns an error; undefined results
// propagate via the (value, ok) idiom instead of NaN sentinels.
package derive

import (
	"math"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/units"
)

// AUKm, LightSpeedKmS, and MileKm re-export the shared unit constants so
// callers doing distance conversions alongside light-time math need only
// import this package.
const (
	AUKm          = units.AUKm
	LightSpeedKmS = units.LightSpeedKmS
	MileKm        = units.MileKm
)

// Magnitude returns the Euclidean norm of (x, y, z). ok is false if any input
// is non-finite, matching "undefined inputs propagate to null".
func Magnitude(x, y, z float64) (value float64, ok bool) {
	if !finite(x, y, z) {
		return 0, false
	}
	return math.Sqrt(x*x + y*y + z*z), true
}

// DeltaMagnitude returns the magnitude of a-b component-wise; any missing or
// non-finite component yields ok == false.
func DeltaMagnitude(ax, ay, az, bx, by, bz float64) (value float64, ok bool) {
	if !finite(ax, ay, az, bx, by, bz) {
		return 0, false
	}
	return Magnitude(ax-bx, ay-by, az-bz)
}

// LightTime is the one-way/two-way light travel time for a given distance.
type LightTime struct {
	OneWaySeconds float64
	OneWayMinutes float64
	TwoWayMinutes float64
}

// ComputeLightTime derives LightTime from a distance in kilometers.
func ComputeLightTime(distanceKm float64) (LightTime, bool) {
	if !finite(distanceKm) || distanceKm < 0 {
		return LightTime{}, false
	}
	oneWaySeconds := distanceKm / LightSpeedKmS
	oneWayMinutes := oneWaySeconds / 60
	return LightTime{
		OneWaySeconds: oneWaySeconds,
		OneWayMinutes: oneWayMinutes,
		TwoWayMinutes: oneWayMinutes * 2,
	}, true
}

// Ecliptic is a body's ecliptic latitude/longitude in degrees, longitude
// normalized to [0, 360).
type Ecliptic struct {
	LatDeg float64
	LonDeg float64
}

// ComputeEcliptic derives ecliptic lat/lon from a Cartesian position.
// lat = asin(z/r) in degrees, lon = atan2(y, x) in degrees, normalized.
func ComputeEcliptic(x, y, z float64) (Ecliptic, bool) {
	r, ok := Magnitude(x, y, z)
	if !ok || r == 0 {
		return Ecliptic{}, false
	}
	lat := radToDeg(math.Asin(z / r))
	lon := normalizeAngle360(radToDeg(math.Atan2(y, x)))
	return Ecliptic{LatDeg: lat, LonDeg: lon}, true
}

// DriftPosition extrapolates position by deltaDays assuming constant velocity:
// p' = p + v*deltaDays. ok is false when velocity is absent — callers must
// fall back to an orbital approximation, which this package does not provide.
func DriftPosition(x, y, z float64, velocity *[3]float64, deltaDays float64) (dx, dy, dz float64, ok bool) {
	if velocity == nil || !finite(x, y, z, velocity[0], velocity[1], velocity[2], deltaDays) {
		return 0, 0, 0, false
	}
	return x + velocity[0]*deltaDays, y + velocity[1]*deltaDays, z + velocity[2]*deltaDays, true
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func radToDeg(r float64) float64 { return r * 180 / math.Pi }

func normalizeAngle360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
