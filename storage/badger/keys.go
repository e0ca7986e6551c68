package badger

// Key prefixes for different data types
const (
	atomRecordPrefix    = "atmrec"
	atomNamespacePrefix = "atmns"
	atomDimensionKey    = "atmdim"
)

// makeAtomKey generates a key for an atom record by id.
func makeAtomKey(atomID string) []byte {
	return []byte(atomRecordPrefix + ":" + atomID)
}

// makeNamespaceKey generates a composite key for the namespace index.
// Format: prefix:namespace:atomID. Namespaces are slugs and never contain
// a colon, so the second colon is an unambiguous separator.
func makeNamespaceKey(namespace, atomID string) []byte {
	return []byte(atomNamespacePrefix + ":" + namespace + ":" + atomID)
}

// splitNamespaceKey extracts the namespace from a namespace index key.
// Returns "" if the key is not a well-formed namespace key.
func splitNamespaceKey(key []byte) string {
	prefix := atomNamespacePrefix + ":"
	if len(key) <= len(prefix) {
		return ""
	}
	rest := string(key[len(prefix):])
	for i := 0; i < len(rest); i++ {
		if rest[i] == ':' {
			return rest[:i]
		}
	}
	return ""
}
