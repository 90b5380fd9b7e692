package index

import "slices"

// Index is the persisted record of privately hosted package names and the
// token-signing secret. List order is insertion order; names are unique.
type Index struct {
	List   []string `json:"list"`
	Secret string   `json:"secret"`
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{
		List: []string{},
	}
}

// Has reports whether name is present in the index
func (ix *Index) Has(name string) bool {
	return slices.Contains(ix.List, name)
}
