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
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// withMiddleware composes the request pipeline every route runs through:
// assign a correlation id, recover panics before they reach the client, then
// log the completed request. Grounded on the teacher pack's withMiddleware
// chain, narrowed to the concerns this service actually needs (no rate
// limiting or API-version negotiation at this layer).
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return s.requestIDMiddleware(s.recoverMiddleware(s.loggingMiddleware(next)))
}

// requestIDMiddleware extracts a correlation id from X-Request-Id or
// X-Correlation-Id, generating a UUID if absent or malformed.
func (s *Server) requestIDMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = r.Header.Get("X-Correlation-Id")
		}
		if id == "" {
			id = uuid.New().String()
		} else if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}

		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// recoverMiddleware turns a panicking handler into a 500 JSON error instead
// of a dropped connection.
func (s *Server) recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				requestID, _ := r.Context().Value(contextKeyRequestID).(string)
				if s.log != nil {
					s.log.RefreshFailed(requestID, "http", fmt.Errorf("panic: %v", rec))
				}
				writeError(w, http.StatusInternalServerError, "internal error", requestID)
			}
		}()
		next.ServeHTTP(w, r)
	}
}

// loggingMiddleware logs request start/completion at debug level, mirroring
// the teacher's loggingMiddleware shape.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, _ := r.Context().Value(contextKeyRequestID).(string)
		if s.log != nil {
			s.log.RequestStarted(requestID, r.Method, r.URL.Path)
		}

		start := time.Now()
		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)

		if s.log != nil {
			s.log.RequestCompleted(requestID, r.Method, r.URL.Path, rw.status, time.Since(start))
		}
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code actually
// written, the same pattern the teacher pack's newResponseWriter uses.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
