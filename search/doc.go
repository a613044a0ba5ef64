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


// Package search provides relevance scoring, ranking and highlighting for the
// back-office global search.
//
// Text is compared in normalized form (see Normalize): lower-cased, with
// diacritics removed, so "João" and "joao" are the same word.
//
// Score assigns each candidate a heuristic relevance between 0 and 100:
//   - an exact title match scores 100 and ends scoring
//   - otherwise one title tier applies: whole word, title prefix, word prefix or substring
//   - description, per-word and metadata matches add on top
//
// The Searcher type gathers candidates from its Sources concurrently, scores
// them, drops those below the minimum score and returns them sorted by
// descending score. Ties keep source order.
//
// HighlightMatches and ExtractSnippet prepare matched text for display.
package search
