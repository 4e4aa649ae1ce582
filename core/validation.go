// Copyright 2025 Poiesic Systems
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

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Answer length bounds, in characters (runes, not bytes).
const (
	MinAnswerLength = 10
	MaxAnswerLength = 2000
)

// ValidateAnswer validates a single profile answer according to domain rules.
// Length is measured in runes so that non-ASCII answers are bounded the same
// way as ASCII ones. The answer is expected to be already normalized.
func ValidateAnswer(answer string) error {
	n := utf8.RuneCountInString(answer)
	if n < MinAnswerLength {
		return fmt.Errorf("%w: %d characters, minimum %d", ErrAnswerTooShort, n, MinAnswerLength)
	}
	if n > MaxAnswerLength {
		return fmt.Errorf("%w: %d characters, maximum %d", ErrAnswerTooLong, n, MaxAnswerLength)
	}
	return nil
}

// ValidateProfile validates a Profile according to domain rules.
//
// Validation rules:
//   - Id must be positive
//   - Each of the three answers must be within the answer length bounds
//   - UpdatedAt must not be in the future
//
// NOT validated (populated by the pipeline):
//   - Keywords (derived from the answers)
//   - Username, FirstName, LastName (optional display fields)
func ValidateProfile(profile *Profile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile is nil", ErrInvalidProfile)
	}

	if err := ValidateUserID(profile.Id); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}

	for i, answer := range profile.Answers() {
		if err := ValidateAnswer(answer); err != nil {
			return fmt.Errorf("%w: answer %d: %w", ErrInvalidProfile, i+1, err)
		}
	}

	if !profile.UpdatedAt.IsZero() && !IsValidTimestamp(profile.UpdatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateUserID validates that a user id has a usable value.
func ValidateUserID(id UserID) error {
	if id <= 0 {
		return fmt.Errorf("%w: value %d", ErrInvalidUserID, id)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
