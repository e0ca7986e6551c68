package core

import (
	"errors"
	"testing"
)

func validAtom() *Atom {
	return &Atom{
		AtomID:       "a_core_loop",
		Namespace:    "devcto",
		Type:         AtomTypePattern,
		Title:        "A Core Loop",
		Summary:      "The agent's central execution loop.",
		Content:      "Summary: The agent's central execution loop.",
		QualityScore: MaxQualityScore,
		ContentHash:  HashContent("Summary: The agent's central execution loop."),
	}
}

func TestValidateAtom(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Atom)
		wantErr error
	}{
		{
			name:    "valid atom",
			mutate:  func(a *Atom) {},
			wantErr: nil,
		},
		{
			name:    "empty atom id",
			mutate:  func(a *Atom) { a.AtomID = "" },
			wantErr: ErrEmptyAtomID,
		},
		{
			name:    "empty namespace",
			mutate:  func(a *Atom) { a.Namespace = "" },
			wantErr: ErrEmptyNamespace,
		},
		{
			name:    "empty content",
			mutate:  func(a *Atom) { a.Content = "" },
			wantErr: ErrEmptyContent,
		},
		{
			name:    "quality score above max",
			mutate:  func(a *Atom) { a.QualityScore = 1.5 },
			wantErr: ErrQualityScoreRange,
		},
		{
			name:    "negative quality score",
			mutate:  func(a *Atom) { a.QualityScore = -0.1 },
			wantErr: ErrQualityScoreRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atom := validAtom()
			tt.mutate(atom)

			err := ValidateAtom(atom)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateAtom() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateAtom() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidAtom) {
				t.Errorf("ValidateAtom() error should wrap ErrInvalidAtom, got %v", err)
			}
		})
	}
}

func TestValidateAtom_Nil(t *testing.T) {
	if !errors.Is(ValidateAtom(nil), ErrInvalidAtom) {
		t.Error("ValidateAtom(nil) should return ErrInvalidAtom")
	}
}
