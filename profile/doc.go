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

// Package profile implements the profile save pipeline: validation,
// text preparation, lexical storage and vector indexing.
//
// A profile save is strictly sequential for one user: validate the three
// answers, normalize and extract keywords, upsert into the profile store
// (which archives the superseded version), embed the prepared text and
// write the vector to the index. A failed vector write is logged and
// accepted; the matching path backfills missing vectors lazily.
//
// Usage:
//
//	pipeline, err := profile.NewPipeline(store, index, embedder)
//	if err != nil { ... }
//	defer pipeline.Release()
//
//	stored, err := pipeline.SaveProfile(ctx, profile.Input{
//		UserID:   userID,
//		Field:    "...",
//		Seeking:  "...",
//		Offering: "...",
//	})
//
// SaveProfiles processes a batch over a worker pool, running different
// users in parallel while keeping each user's steps sequential.
package profile
