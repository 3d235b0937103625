// Copyright 2025 Hirelens Authors
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


// Package search implements the tiered hybrid ranking engine.
//
// The Engine type runs a multi-stage pipeline per request:
//   - Query normalization with translation into the canonical language
//   - Tiered lexical retrieval (exact / relevant / similar, mutually
//     exclusive via exclude lists)
//   - Vector-similarity retrieval, concurrent with the lexical side
//   - Tier-weighted score fusion
//   - Candidate-level aggregation with duration multipliers
//
// Higher lexical tiers always outrank lower ones; within a tier, fused
// scores decide. A retriever that fails or times out degrades to an
// empty contribution rather than failing the request.
package search
