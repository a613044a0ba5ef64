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


package search

import "errors"

var (
	// ErrSourcesRequired is returned when a searcher is created without sources.
	ErrSourcesRequired = errors.New("at least one candidate source required")

	// ErrNilSource is returned when one of the sources is nil.
	ErrNilSource = errors.New("candidate source cannot be nil")

	// ErrInvalidMinScore is returned for a minimum score outside [0, 100].
	ErrInvalidMinScore = errors.New("minimum score must be between 0 and 100")
)
