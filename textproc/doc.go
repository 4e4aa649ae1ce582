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


// Package textproc prepares free-text questionnaire answers for embedding
// and keyword search.
//
// The package provides three building blocks:
//   - Normalize strips noise characters and collapses whitespace
//   - KeywordExtractor derives frequency-ranked keywords with stop-word
//     filtering
//   - Chunker splits long text into overlapping, sentence-aligned chunks
//
// Preparer ties them together: it turns the three profile answers into a
// structured text, its chunks, and the keyword list used for lexical
// candidate retrieval. All operations are deterministic; prepared output
// is ephemeral and never persisted.
package textproc
