// Package parser implements the line-oriented atom extraction grammar.
//
// A source document is a markdown file of atom sections separated by `---`
// rule lines. Each section carries a `## Atom: <id>` heading and a fixed set
// of labeled subsections (`**Summary:**`, `**When to use:**`, optional
// `**Code pattern:**`, `**Related atoms:**`, ...). Parsing produces one
// tagged Result per section: a core.Atom with the embedding unset, or a
// ParseError naming the offending section. A bad section never aborts the
// rest of the document.
package parser
