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

package httpapi

import "time"

// planetsResponse is the §6 response body for the planets routes.
type planetsResponse struct {
	Timestamp time.Time       `json:"timestamp"`
	Metadata  planetsMetadata `json:"metadata"`
	Bodies    []bodyVector    `json:"bodies"`
}

type planetsMetadata struct {
	Source           string `json:"source"`
	ReferenceFrame   string `json:"referenceFrame"`
	DistanceUnit     string `json:"distanceUnit"`
	VelocityUnit     string `json:"velocityUnit"`
	ResponseTimeMs   int64  `json:"responseTimeMs"`
	CacheStatus      string `json:"cacheStatus"`
	CacheBackend     string `json:"cacheBackend"`
	CacheAgeMs       int64  `json:"cacheAgeMs"`
	CacheExpiresInMs int64  `json:"cacheExpiresInMs"`
	CacheStale       bool   `json:"cacheStale"`
	GeneratedAt      time.Time `json:"generatedAt"`
	FrozenSnapshot   *bool  `json:"frozenSnapshot,omitempty"`
	FreezeReason     string `json:"freezeReason,omitempty"`
	RequestID        string `json:"requestId,omitempty"`
}

type bodyVector struct {
	Name         string   `json:"name"`
	XAU          float64  `json:"x_au"`
	YAU          float64  `json:"y_au"`
	ZAU          float64  `json:"z_au"`
	VX           *float64 `json:"vx,omitempty"`
	VY           *float64 `json:"vy,omitempty"`
	VZ           *float64 `json:"vz,omitempty"`
	VelocityUnit string   `json:"velocityUnit,omitempty"`
}

// probesResponse is the §6 response body for GET /api/voyagers.
type probesResponse struct {
	Timestamp time.Time      `json:"timestamp"`
	RequestID string         `json:"requestId"`
	Metadata  probesMetadata `json:"metadata"`
	Voyagers  []voyagerView  `json:"voyagers"`
}

type probesMetadata struct {
	Source                  string   `json:"source"`
	UnitDistanceBase         string   `json:"unitDistanceBase"`
	UnitVelocityBase         string   `json:"unitVelocityBase"`
	UnitDistanceConverted    []string `json:"unitDistanceConverted"`
	UnitVelocityConverted    []string `json:"unitVelocityConverted"`
}

type triple struct {
	AU    float64 `json:"au"`
	Km    float64 `json:"km"`
	Miles float64 `json:"miles"`
}

type speedTriple struct {
	AUPerDay float64 `json:"auPerDay"`
	KmPerS   float64 `json:"kmPerS"`
	MilesPerS float64 `json:"milesPerS"`
}

type lightTimeView struct {
	OneWaySeconds float64 `json:"oneWaySeconds"`
	OneWayMinutes float64 `json:"oneWayMinutes"`
	TwoWayMinutes float64 `json:"twoWayMinutes"`
}

type trajectoryView struct {
	EclipticLatDeg      float64 `json:"eclipticLatDeg"`
	EclipticLonDeg      float64 `json:"eclipticLonDeg"`
	VelocityAzimuthDeg  float64 `json:"velocityAzimuthDeg"`
	VelocityLatDeg      float64 `json:"velocityLatDeg"`
}

type voyagerView struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	HorizonsID        string         `json:"horizonsId"`
	PositionAU        [3]float64     `json:"positionAu"`
	PositionKm        [3]float64     `json:"positionKm"`
	PositionMiles     [3]float64     `json:"positionMiles"`
	VelocityAUPerDay  *[3]float64    `json:"velocityAuPerDay,omitempty"`
	VelocityKmPerS    *[3]float64    `json:"velocityKmPerS,omitempty"`
	VelocityMilesPerS *[3]float64    `json:"velocityMilesPerS,omitempty"`
	DistanceFromSun   triple         `json:"distanceFromSun"`
	DistanceFromEarth triple         `json:"distanceFromEarth"`
	Speed             speedTriple    `json:"speed"`
	LightTime         lightTimeView  `json:"lightTime"`
	Trajectory        trajectoryView `json:"trajectory"`
	Timestamp         time.Time      `json:"timestamp"`
	ReferenceFrame    string         `json:"referenceFrame"`
	Source            string         `json:"source"`
	VelocityUnit      string         `json:"velocityUnit"`
}

// errorResponse is the §6 error body: {error, requestId}.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}
