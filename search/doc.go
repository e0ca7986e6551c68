// Package search provides similarity-ranked retrieval of atoms.
//
// The Searcher embeds the query text, delegates ranking to the storage
// layer's vector search, and hydrates the ranked ids into full atoms.
// Ranking is deterministic: ties are broken by atom id, so a fixed store
// state and query always produce the identical ordered result list.
package search
