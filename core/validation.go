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

import "fmt"

// ValidateAtom validates an Atom according to domain rules.
//
// Validation rules:
//   - AtomID must not be empty
//   - Namespace must not be empty
//   - Content must not be empty
//   - QualityScore must be within [0, 1]
//
// NOT validated (populated during ingestion):
//   - Vector (can be empty until embedded)
//   - CreatedAt/UpdatedAt (set by the store on commit)
//   - RelatedAtoms (weak references, dangling is allowed)
func ValidateAtom(atom *Atom) error {
	if atom == nil {
		return fmt.Errorf("%w: atom is nil", ErrInvalidAtom)
	}

	if atom.AtomID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAtom, ErrEmptyAtomID)
	}

	if atom.Namespace == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAtom, ErrEmptyNamespace)
	}

	if atom.Content == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAtom, ErrEmptyContent)
	}

	if atom.QualityScore < 0 || atom.QualityScore > MaxQualityScore {
		return fmt.Errorf("%w: %w", ErrInvalidAtom, ErrQualityScoreRange)
	}

	return nil
}
