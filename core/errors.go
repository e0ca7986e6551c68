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


package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidAtom indicates an Atom failed validation.
	ErrInvalidAtom = errors.New("invalid atom")

	// ErrEmptyAtomID indicates the AtomID field is empty.
	ErrEmptyAtomID = errors.New("atom id cannot be empty")

	// ErrEmptyNamespace indicates the Namespace field is empty.
	ErrEmptyNamespace = errors.New("namespace cannot be empty")

	// ErrEmptyContent indicates the Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrQualityScoreRange indicates QualityScore is outside [0, 1].
	ErrQualityScoreRange = errors.New("quality score must be between 0 and 1")
)
