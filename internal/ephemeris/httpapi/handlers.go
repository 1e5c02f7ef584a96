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

import (
	"context"
	"net/http"
	"time"

	"github.com/roussov/Solar-System-Live/internal/ephemeris/catalog"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/derive"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/horizons"
	"github.com/roussov/Solar-System-Live/internal/ephemeris/snapshot"
)

func (s *Server) handlePlanets(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)
	ctx, cancel := context.WithTimeout(r.Context(), RequestDeadline)
	defer cancel()

	start := time.Now()
	res, err := s.engine.Get(ctx, catalog.Planets, snapshot.Options{
		ForceRefresh:  wantsRefresh(r),
		CorrelationID: requestID,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), requestID)
		return
	}

	setCacheHeaders(w, res, s.engine.TTL().Milliseconds(), time.Since(start))

	body := planetsResponse{
		Timestamp: res.Snapshot.Timestamp,
		Metadata: planetsMetadata{
			Source:           "horizons",
			ReferenceFrame:   res.Snapshot.ReferenceFrame,
			DistanceUnit:     res.Snapshot.DistanceUnit,
			VelocityUnit:     res.Snapshot.VelocityUnit,
			ResponseTimeMs:   res.Snapshot.ResponseTimeMs,
			CacheStatus:      res.CacheState,
			CacheBackend:     res.CacheBackend,
			CacheAgeMs:       res.CacheAgeMs,
			CacheExpiresInMs: res.CacheExpiresInMs,
			CacheStale:       res.CacheStale,
			GeneratedAt:      res.GeneratedAt,
			RequestID:        requestID,
		},
		Bodies: toBodyVectors(res.Snapshot.Bodies),
	}
	if res.FrozenSnapshot {
		frozen := true
		body.Metadata.FrozenSnapshot = &frozen
		body.Metadata.FreezeReason = res.FreezeReason
	}

	writeJSON(w, http.StatusOK, body)
}

func toBodyVectors(bodies []horizons.StateVector) []bodyVector {
	out := make([]bodyVector, len(bodies))
	for i, b := range bodies {
		bv := bodyVector{Name: b.Body, XAU: b.X, YAU: b.Y, ZAU: b.Z}
		if b.Velocity != nil {
			vx, vy, vz := b.Velocity[0], b.Velocity[1], b.Velocity[2]
			bv.VX, bv.VY, bv.VZ = &vx, &vy, &vz
			bv.VelocityUnit = "AU/day"
		}
		out[i] = bv
	}
	return out
}

// handleVoyagers implements GET /api/voyagers: the probes snapshot enriched
// with Earth-relative derived values, which requires also reading the
// planets snapshot (§6: "requires planets snapshot; share its cache").
func (s *Server) handleVoyagers(w http.ResponseWriter, r *http.Request) {
	requestID := requestIDFrom(r)
	ctx, cancel := context.WithTimeout(r.Context(), RequestDeadline)
	defer cancel()

	opts := snapshot.Options{ForceRefresh: wantsRefresh(r), CorrelationID: requestID}

	probesRes, err := s.engine.Get(ctx, catalog.Probes, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), requestID)
		return
	}
	planetsRes, err := s.engine.Get(ctx, catalog.Planets, snapshot.Options{CorrelationID: requestID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), requestID)
		return
	}

	var earth *horizons.StateVector
	for i, b := range planetsRes.Snapshot.Bodies {
		if b.Body == "earth" {
			earth = &planetsRes.Snapshot.Bodies[i]
			break
		}
	}

	setCacheHeaders(w, probesRes, s.engine.TTL().Milliseconds(), 0)

	body := probesResponse{
		Timestamp: probesRes.Snapshot.Timestamp,
		RequestID: requestID,
		Metadata: probesMetadata{
			Source:                "horizons",
			UnitDistanceBase:      "AU",
			UnitVelocityBase:      "AU/day",
			UnitDistanceConverted: []string{"km", "miles"},
			UnitVelocityConverted: []string{"km/s", "miles/s"},
		},
		Voyagers: buildVoyagerViews(probesRes.Snapshot.Bodies, earth),
	}

	writeJSON(w, http.StatusOK, body)
}

func buildVoyagerViews(bodies []horizons.StateVector, earth *horizons.StateVector) []voyagerView {
	out := make([]voyagerView, 0, len(bodies))
	for _, b := range bodies {
		display := catalogDisplay(b.Body)

		posKm := [3]float64{b.X * derive.AUKm, b.Y * derive.AUKm, b.Z * derive.AUKm}
		posMi := [3]float64{posKm[0] / derive.MileKm, posKm[1] / derive.MileKm, posKm[2] / derive.MileKm}

		v := voyagerView{
			ID:             b.Body,
			Name:           display,
			HorizonsID:     providerIDFor(b.Body),
			PositionAU:     [3]float64{b.X, b.Y, b.Z},
			PositionKm:     posKm,
			PositionMiles:  posMi,
			Timestamp:      b.Timestamp,
			ReferenceFrame: b.Frame,
			Source:         b.Source,
		}

		if b.Velocity != nil {
			vAU := *b.Velocity
			vKm := [3]float64{vAU[0] * derive.AUKm / 86400, vAU[1] * derive.AUKm / 86400, vAU[2] * derive.AUKm / 86400}
			vMi := [3]float64{vKm[0] / derive.MileKm, vKm[1] / derive.MileKm, vKm[2] / derive.MileKm}
			v.VelocityAUPerDay, v.VelocityKmPerS, v.VelocityMilesPerS = &vAU, &vKm, &vMi
			v.VelocityUnit = "AU/day"

			speed, _ := derive.Magnitude(vKm[0], vKm[1], vKm[2])
			speedAU, _ := derive.Magnitude(vAU[0], vAU[1], vAU[2])
			v.Speed = speedTriple{AUPerDay: speedAU, KmPerS: speed, MilesPerS: speed / derive.MileKm}

			if traj, ok := derive.ComputeEcliptic(vAU[0], vAU[1], vAU[2]); ok {
				v.Trajectory.VelocityAzimuthDeg = traj.LonDeg
				v.Trajectory.VelocityLatDeg = traj.LatDeg
			}
		}

		if distSun, ok := derive.Magnitude(b.X, b.Y, b.Z); ok {
			v.DistanceFromSun = triple{AU: distSun, Km: distSun * derive.AUKm, Miles: distSun * derive.AUKm / derive.MileKm}
			if lt, ok := derive.ComputeLightTime(v.DistanceFromSun.Km); ok {
				v.LightTime = lightTimeView(lt)
			}
		}

		if earth != nil {
			if distEarth, ok := derive.DeltaMagnitude(b.X, b.Y, b.Z, earth.X, earth.Y, earth.Z); ok {
				v.DistanceFromEarth = triple{AU: distEarth, Km: distEarth * derive.AUKm, Miles: distEarth * derive.AUKm / derive.MileKm}
				if lt, ok := derive.ComputeLightTime(v.DistanceFromEarth.Km); ok {
					v.LightTime = lightTimeView(lt)
				}
			}
		}

		if ecl, ok := derive.ComputeEcliptic(b.X, b.Y, b.Z); ok {
			v.Trajectory.EclipticLatDeg = ecl.LatDeg
			v.Trajectory.EclipticLonDeg = ecl.LonDeg
		}

		out = append(out, v)
	}
	return out
}

func catalogDisplay(name string) string {
	for _, b := range catalog.List(catalog.Probes) {
		if b.Name == name {
			return b.Display
		}
	}
	return name
}

func providerIDFor(name string) string {
	for _, b := range catalog.List(catalog.Probes) {
		if b.Name == name {
			return b.ProviderID
		}
	}
	return ""
}
