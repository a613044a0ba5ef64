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


// Package storage provides the storage abstraction layer for shopsearch.
//
// This package defines repository interfaces that decouple storage implementation
// from business logic. The only persisted state is the search history: an ordered
// list of previously selected results, stored and replaced as a whole.
//
// # Usage
//
// Create a repository instance:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	repo := badger.NewHistoryRepository(backend, "default")
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryHistoryRepository()
//
// # Serialization
//
// History lists are encoded with mus-go: a format version, an item count and
// the items themselves. Metadata keys are written in sorted order so equal
// lists always produce equal bytes.
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
