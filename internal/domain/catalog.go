package domain

import (
	"slices"
)

// TypeCatalog lists the change types stored in a database and the object types they target
type TypeCatalog struct {
	ChangeTypes []string
	ObjectTypes []string
}

// NewTypeCatalog builds a sorted, de-duplicated catalog from parsed change type tags.
// Generic arguments of each change type are taken as object types.
func NewTypeCatalog(types []TypeName) *TypeCatalog {
	changes := make(map[string]struct{})
	objects := make(map[string]struct{})
	for _, t := range types {
		changes[t.String()] = struct{}{}
		for _, arg := range t.Args {
			objects[arg.String()] = struct{}{}
		}
	}
	return &TypeCatalog{
		ChangeTypes: sortedKeys(changes),
		ObjectTypes: sortedKeys(objects),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
