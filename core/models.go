package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Atom types produced by the parser. Types are open-ended strings; these are
// the values the bundled grammar emits.
const (
	AtomTypePattern = "pattern"
	AtomTypeFact    = "fact"
)

// MaxQualityScore is the default quality score for hand-authored atoms.
const MaxQualityScore float32 = 1.0

// HashContent generates a deterministic 64-bit content hash using BLAKE2b.
// Identical content always produces an identical hash, which is what the
// ingestion idempotency check relies on.
func HashContent(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// Slug normalizes a heading or cross-reference into lowercase slug form:
// letters and digits are kept, every other run of characters becomes a single
// underscore, and leading/trailing underscores are trimmed.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastUnderscore := true // suppress a leading underscore
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Provenance records where an atom came from.
type Provenance struct {
	Document string
	Pages    []int
}

// Atom is a single self-contained knowledge record.
// Vector and the timestamps are populated during ingestion; everything else
// is produced by the parser.
type Atom struct {
	AtomID       string
	Namespace    string
	Type         string
	Title        string
	Summary      string
	Content      string
	Keywords     []string
	RelatedAtoms []string // weak references; need not resolve
	Source       Provenance
	QualityScore float32
	Vector       []float32 // embedding (populated by the ingestion pipeline)
	ContentHash  uint64    // HashContent(Content), set by the parser
	CreatedAt    time.Time // set once at first commit
	UpdatedAt    time.Time
}

// SimilarityMatch is a single ranked hit from vector similarity search.
type SimilarityMatch struct {
	AtomID string
	Score  float32
}

// SearchResult pairs a hydrated atom with its relevance score.
type SearchResult struct {
	Atom  *Atom
	Score float32
}

// StoreStats summarizes the committed contents of a store.
type StoreStats struct {
	TotalAtoms int
	Namespaces map[string]int
}
