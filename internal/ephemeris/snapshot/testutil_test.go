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

package snapshot

import "github.com/prometheus/client_golang/prometheus"

// prometheusTestRegistry returns a fresh registry per test so parallel test
// binaries never collide on the global default registry's metric names.
func prometheusTestRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}
