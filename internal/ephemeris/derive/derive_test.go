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

package derive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMagnitude(t *testing.T) {
	tests := []struct {
		name       string
		x, y, z    float64
		wantValue  float64
		wantOK     bool
	}{
		{name: "unit x", x: 1, y: 0, z: 0, wantValue: 1, wantOK: true},
		{name: "3-4-5 triangle", x: 3, y: 4, z: 0, wantValue: 5, wantOK: true},
		{name: "NaN propagates to undefined", x: math.NaN(), y: 0, z: 0, wantOK: false},
		{name: "inf propagates to undefined", x: math.Inf(1), y: 0, z: 0, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := Magnitude(tt.x, tt.y, tt.z)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.wantValue, v, 1e-9)
			}
		})
	}
}

func TestDeltaMagnitude(t *testing.T) {
	v, ok := DeltaMagnitude(100, 0, 0, 1, 0, 0)
	assert.True(t, ok)
	assert.InDelta(t, 99, v, 1e-9)

	_, ok = DeltaMagnitude(math.NaN(), 0, 0, 1, 0, 0)
	assert.False(t, ok)
}

func TestComputeLightTime(t *testing.T) {
	lt, ok := ComputeLightTime(AUKm)
	assert.True(t, ok)
	assert.InDelta(t, AUKm/LightSpeedKmS, lt.OneWaySeconds, 1e-6)
	assert.InDelta(t, lt.OneWaySeconds/60, lt.OneWayMinutes, 1e-9)
	assert.InDelta(t, lt.OneWayMinutes*2, lt.TwoWayMinutes, 1e-9)

	_, ok = ComputeLightTime(-1)
	assert.False(t, ok)
}

func TestComputeEcliptic(t *testing.T) {
	ecl, ok := ComputeEcliptic(1, 0, 0)
	assert.True(t, ok)
	assert.InDelta(t, 0, ecl.LatDeg, 1e-9)
	assert.InDelta(t, 0, ecl.LonDeg, 1e-9)

	ecl, ok = ComputeEcliptic(0, -1, 0)
	assert.True(t, ok)
	assert.InDelta(t, 270, ecl.LonDeg, 1e-9)
	assert.GreaterOrEqual(t, ecl.LonDeg, 0.0)
	assert.Less(t, ecl.LonDeg, 360.0)

	_, ok = ComputeEcliptic(0, 0, 0)
	assert.False(t, ok)
}

func TestDriftPosition(t *testing.T) {
	vel := [3]float64{0.1, 0, 0}
	dx, dy, dz, ok := DriftPosition(1, 0, 0, &vel, 10)
	assert.True(t, ok)
	assert.InDelta(t, 2, dx, 1e-9)
	assert.InDelta(t, 0, dy, 1e-9)
	assert.InDelta(t, 0, dz, 1e-9)

	_, _, _, ok = DriftPosition(1, 0, 0, nil, 10)
	assert.False(t, ok)
}
