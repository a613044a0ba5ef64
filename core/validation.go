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
	"strings"
)

// MaxScore is the highest relevance score a result can carry.
const MaxScore = 100

// ValidateSearchResult validates a SearchResult according to domain rules.
//
// Validation rules:
//   - Id must not be empty
//   - Title must not be blank
//   - Type must be a known ResultType
//   - Score must be within [0, MaxScore]
//
// NOT validated:
//   - Description, Href and Metadata (all optional)
func ValidateSearchResult(result *SearchResult) error {
	if result == nil {
		return fmt.Errorf("%w: result is nil", ErrInvalidSearchResult)
	}

	if result.Id == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSearchResult, ErrEmptyID)
	}

	if strings.TrimSpace(result.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSearchResult, ErrEmptyTitle)
	}

	if !result.Type.IsValid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidSearchResult, ErrInvalidResultType, result.Type)
	}

	if result.Score < 0 || result.Score > MaxScore {
		return fmt.Errorf("%w: %w: %d", ErrInvalidSearchResult, ErrScoreOutOfRange, result.Score)
	}

	return nil
}

// ParseResultType converts a string into a ResultType.
// Matching is case-insensitive and ignores surrounding space.
func ParseResultType(s string) (ResultType, error) {
	t := ResultType(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidResultType, s)
	}
	return t, nil
}

// MatchesCategory reports whether a result of type t belongs to category.
// An empty category or CategoryAll matches every type.
func MatchesCategory(t ResultType, category string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" || category == CategoryAll {
		return true
	}
	return string(t) == category
}
