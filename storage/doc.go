// Copyright 2025 CodeBang Labs
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


// Package storage provides the storage abstraction layer for atomkb.
//
// This package defines the AtomRepository interface that decouples the
// storage implementation from business logic, allowing different backends
// (BadgerDB, in-memory, etc.) to be used interchangeably.
//
// # Consistency Model
//
// Upsert is atomic per atom id: concurrent upserts of the same id never
// interleave into a partial write, and the write that commits last wins.
// Reads observe a consistent snapshot of each atom; a search running
// concurrently with ingestion never sees a half-written embedding.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support. Pass context.Background() for operations without
// specific timeout requirements.
package storage
