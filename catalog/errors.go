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


package catalog

import "errors"

var (
	// ErrDirectoryRequired is returned when a staff source has no directory.
	ErrDirectoryRequired = errors.New("staff directory required")

	// ErrInvalidMaxAttempts is returned when a retry policy allows no attempt.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than 0")

	// ErrInvalidType is returned when an entry's type does not match its source.
	ErrInvalidType = errors.New("result type does not match source")

	// ErrUnexpectedStatus is returned for non-2xx responses of the staff API.
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrInvalidResponse is returned when a staff API response cannot be decoded.
	ErrInvalidResponse = errors.New("invalid staff response")

	// ErrInvalidCatalog is returned when a catalog file cannot be used.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
