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


package core

import "fmt"

// ValidateExperience validates an Experience according to domain rules.
//
// Validation rules:
//   - Position must not be empty
//   - CandidateId must not be zero
//   - EndDate, when set, must not precede StartDate
//
// NOT validated (populated by ingestion processors):
//   - Vector (can be empty until the embedding processor runs)
//   - PositionCanonical (can be empty until the translation processor runs)
//   - ID (0 is valid before content-hash assignment)
func ValidateExperience(exp *Experience) error {
	if exp == nil {
		return fmt.Errorf("%w: experience is nil", ErrInvalidExperience)
	}

	if exp.Position == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExperience, ErrEmptyPosition)
	}

	if exp.CandidateId == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidExperience, ErrEmptyCandidate)
	}

	if !exp.EndDate.IsZero() && exp.EndDate.Before(exp.StartDate) {
		return fmt.Errorf("%w: %w", ErrInvalidExperience, ErrInvalidDates)
	}

	return nil
}
