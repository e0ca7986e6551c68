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


package storage

import (
	"fmt"

	"github.com/codebang/atomkb/core"
)

// MarshalAtom serializes an Atom to bytes.
func MarshalAtom(atom *core.Atom) []byte {
	buf := make([]byte, core.AtomMUS.Size(*atom))
	core.AtomMUS.Marshal(*atom, buf)
	return buf
}

// UnmarshalAtom deserializes an Atom from bytes.
func UnmarshalAtom(data []byte) (*core.Atom, error) {
	atom, _, err := core.AtomMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &atom, nil
}
