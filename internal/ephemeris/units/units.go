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

// Package units centralizes the physical constants shared by the upstream
// parser (unit conversion) and DerivedComputations (distance/speed/light-time
// math), so the two never drift apart on the value of an AU.
package units

const (
	// AUKm is 1 astronomical unit in kilometers.
	AUKm = 149_597_870.7
	// LightSpeedKmS is the speed of light in km/s.
	LightSpeedKmS = 299_792.458
	// MileKm is 1 mile in kilometers.
	MileKm = 1.609344
	// SecondsPerDay converts AU/day velocities to/from AU/s-denominated units.
	SecondsPerDay = 86_400.0
)
