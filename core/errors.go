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

import "errors"

// Domain validation errors
var (
	// ErrInvalidExperience indicates an Experience failed validation.
	ErrInvalidExperience = errors.New("invalid experience")

	// ErrEmptyPosition indicates the Position field is empty.
	ErrEmptyPosition = errors.New("position cannot be empty")

	// ErrEmptyCandidate indicates the CandidateId field is zero.
	ErrEmptyCandidate = errors.New("candidate id cannot be zero")

	// ErrInvalidDates indicates the end date precedes the start date.
	ErrInvalidDates = errors.New("end date cannot precede start date")
)
