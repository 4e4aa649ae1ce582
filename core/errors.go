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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProfile indicates a Profile failed validation.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrInvalidUserID indicates a user id that is zero or negative.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrAnswerTooShort indicates a profile answer below the minimum length.
	ErrAnswerTooShort = errors.New("answer too short")

	// ErrAnswerTooLong indicates a profile answer above the maximum length.
	ErrAnswerTooLong = errors.New("answer too long")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")

	// ErrRequestInFlight indicates the member already has a matching request
	// in progress; the new request is dropped, not queued.
	ErrRequestInFlight = errors.New("matching request already in progress")
)
