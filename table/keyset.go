package table

// KeySet is a set of cell keys.
type KeySet map[Key]struct{}

func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// SubsetOf reports whether every key of s is in other, and returns the first
// offending key otherwise.
func (s KeySet) SubsetOf(other KeySet) (Key, bool) {
	for k := range s {
		if !other.Has(k) {
			return k, false
		}
	}

	return "", true
}

// LabelSets groups the labels seen at each cell, counting repeats. It is the
// multiset view used for cross-product checks.
func LabelSets(t *Table) map[Key]map[string]int {
	out := make(map[Key]map[string]int)
	for _, r := range t.Rows {
		k := r.Cell.Key()
		m, ok := out[k]
		if !ok {
			m = make(map[string]int)
			out[k] = m
		}
		m[r.Label]++
	}

	return out
}
