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

// Package match implements candidate retrieval and ranking for member
// matching.
//
// The Retriever gathers candidates from two sources: keyword search over
// stored profiles and similarity search over the vector index. The two
// lists are merged with keyword results taking priority, deduplicated by
// user id, and capped.
//
// The Ranker asks a language model to score the merged candidates against
// the requesting member's profile and to explain each suggested match.
// When the model is unreachable or returns output that cannot be parsed,
// the ranker degrades to a deterministic ordering so that a member always
// receives a result.
//
// Matcher ties the two together behind a per-user in-flight guard:
//
//	matcher := match.NewMatcher(store, retriever, ranker)
//	result, err := matcher.FindMatches(ctx, userID)
package match
