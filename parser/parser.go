package parser

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/codebang/atomkb/core"
)

// Labeled subsections of an atom section. Summary and When-to-use are
// required; everything else is optional.
var contentLabels = []string{
	"Summary",
	"When to use",
	"Key concepts",
	"Code pattern",
	"Implementation notes",
	"Best practices",
}

var (
	sectionSplitRe = regexp.MustCompile(`(?m)^---\s*$`)
	atomHeadingRe  = regexp.MustCompile(`## Atom:\s+(\S+)`)
	backtickRe     = regexp.MustCompile("`([^`]+)`")
	pageMarkerRe   = regexp.MustCompile(`(?i)\bp(?:ages?|p)?\.?\s*\d`)
	numberRe       = regexp.MustCompile(`\d+`)
)

// ParseError describes a single malformed atom section.
type ParseError struct {
	Section string // the offending section heading (or an excerpt when absent)
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in section %q: %s", e.Section, e.Reason)
}

// Result is the tagged outcome of parsing one atom section.
// Exactly one of Atom or Err is set.
type Result struct {
	Atom *core.Atom
	Err  *ParseError
}

// Parse converts a structured atom document into an ordered sequence of
// per-section results with embeddings unset. Sections are delimited by `---`
// rule lines; each must carry a `## Atom:` heading plus the labeled
// subsections of the grammar. A malformed section yields a ParseError result
// for that atom only, never a whole-document failure.
//
// Parse is a pure function over the document text.
func Parse(document, body, namespace string) []Result {
	var results []Result

	for _, section := range sectionSplitRe.Split(body, -1) {
		if strings.TrimSpace(section) == "" || !strings.Contains(section, "## Atom:") {
			continue
		}
		results = append(results, parseSection(document, section, namespace))
	}

	return results
}

func parseSection(document, section, namespace string) Result {
	heading := atomHeadingRe.FindStringSubmatch(section)
	if heading == nil {
		return Result{Err: &ParseError{
			Section: sectionExcerpt(section),
			Reason:  "atom heading carries no id",
		}}
	}

	atomID := core.Slug(heading[1])
	if atomID == "" {
		return Result{Err: &ParseError{
			Section: heading[1],
			Reason:  "atom heading normalizes to an empty id",
		}}
	}

	summary, ok := extractBlock(section, "Summary")
	if !ok {
		return missingSubsection(atomID, "Summary")
	}
	if _, ok := extractBlock(section, "When to use"); !ok {
		return missingSubsection(atomID, "When to use")
	}

	// Reassemble the labeled subsections into the authoritative content
	// body, in grammar order. The reassembly is deterministic so repeated
	// parses of an unchanged document hash identically.
	var parts []string
	for _, label := range contentLabels {
		block, ok := extractBlock(section, label)
		if !ok {
			continue
		}
		if label == "Summary" {
			parts = append(parts, "Summary: "+block)
		} else {
			parts = append(parts, label+":\n"+block)
		}
	}
	content := strings.Join(parts, "\n\n")

	atom := &core.Atom{
		AtomID:       atomID,
		Namespace:    namespace,
		Type:         core.AtomTypePattern,
		Title:        titleCase(atomID),
		Summary:      summary,
		Content:      content,
		Keywords:     extractKeywords(section),
		RelatedAtoms: extractRelatedAtoms(section),
		Source:       extractProvenance(document, section),
		QualityScore: core.MaxQualityScore,
		ContentHash:  core.HashContent(content),
	}
	return Result{Atom: atom}
}

func missingSubsection(atomID, label string) Result {
	return Result{Err: &ParseError{
		Section: atomID,
		Reason:  fmt.Sprintf("missing required subsection **%s:**", label),
	}}
}

// extractBlock returns the text of a labeled subsection, which runs from the
// label marker to the next blank-line-separated label (or the section end).
func extractBlock(section, label string) (string, bool) {
	marker := "**" + label + ":**"
	idx := strings.Index(section, marker)
	if idx < 0 {
		return "", false
	}
	rest := section[idx+len(marker):]
	if end := strings.Index(rest, "\n\n**"); end >= 0 {
		rest = rest[:end]
	}
	text := strings.TrimSpace(rest)
	if text == "" {
		return "", false
	}
	return text, true
}

// extractLine returns the first line of a labeled subsection.
func extractLine(section, label string) (string, bool) {
	marker := "**" + label + ":**"
	idx := strings.Index(section, marker)
	if idx < 0 {
		return "", false
	}
	rest := section[idx+len(marker):]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}
	text := strings.TrimSpace(rest)
	if text == "" {
		return "", false
	}
	return text, true
}

// extractKeywords derives the keyword set from the Key-concepts bullet list:
// the text before the first colon of each bullet, deduplicated and sorted.
func extractKeywords(section string) []string {
	block, ok := extractBlock(section, "Key concepts")
	if !ok {
		return nil
	}

	seen := make(map[string]bool)
	var keywords []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "•") {
			continue
		}
		item := strings.TrimSpace(strings.TrimLeft(line, "-•"))
		if colon := strings.IndexByte(item, ':'); colon >= 0 {
			item = item[:colon]
		}
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		keywords = append(keywords, item)
	}
	sort.Strings(keywords)
	return keywords
}

// extractRelatedAtoms collects backticked cross-references from the
// Related-atoms line, normalized to lowercase slug form. These are weak
// references and are not checked for existence. Order is preserved.
func extractRelatedAtoms(section string) []string {
	line, ok := extractLine(section, "Related atoms")
	if !ok {
		return nil
	}

	var related []string
	for _, match := range backtickRe.FindAllStringSubmatch(line, -1) {
		if slug := core.Slug(match[1]); slug != "" {
			related = append(related, slug)
		}
	}
	return related
}

// extractProvenance reads optional page markers from the Source line.
// The document name always comes from the ingested document itself. Page
// numbers are everything numeric after a "p."/"pp."/"page" marker, so
// "Agent handbook, pp. 12, 14" yields pages 12 and 14.
func extractProvenance(document, section string) core.Provenance {
	prov := core.Provenance{Document: document}
	line, ok := extractLine(section, "Source")
	if !ok {
		return prov
	}
	marker := pageMarkerRe.FindStringIndex(line)
	if marker == nil {
		return prov
	}
	for _, num := range numberRe.FindAllString(line[marker[0]:], -1) {
		if page, err := strconv.Atoi(num); err == nil {
			prov.Pages = append(prov.Pages, page)
		}
	}
	return prov
}

// titleCase turns a slug into a display title: "a_core_loop" → "A Core Loop".
func titleCase(slug string) string {
	words := strings.Split(slug, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// sectionExcerpt returns the first non-empty line of a section for error
// reporting when no heading id is available.
func sectionExcerpt(section string) string {
	for _, line := range strings.Split(section, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
