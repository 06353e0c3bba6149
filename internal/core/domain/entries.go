package domain

import "go.trai.ch/zerr"

// Entries is an ordered list of cache entries with unique names.
type Entries []*Entry

// Index returns the position of the named entry, or -1.
func (es Entries) Index(name string) int {
	for i, e := range es {
		if e.Name == name {
			return i
		}
	}
	return -1
}

// Lookup returns the named entry, or nil.
func (es Entries) Lookup(name string) *Entry {
	if i := es.Index(name); i >= 0 {
		return es[i]
	}
	return nil
}

// Add appends e, rejecting duplicate names.
func (es Entries) Add(e *Entry) (Entries, error) {
	if err := ValidateEntryName(e.Name); err != nil {
		return es, err
	}
	if es.Index(e.Name) >= 0 {
		return es, zerr.With(zerr.Wrap(ErrDuplicateEntry, e.Name), "name", e.Name)
	}
	return append(es, e), nil
}

// Remove returns the list without the named entry.
// The receiver's backing array is not modified.
func (es Entries) Remove(name string) (Entries, error) {
	i := es.Index(name)
	if i < 0 {
		return es, zerr.With(zerr.Wrap(ErrEntryNotFound, name), "name", name)
	}
	out := make(Entries, 0, len(es)-1)
	out = append(out, es[:i]...)
	return append(out, es[i+1:]...), nil
}

// Clone returns a deep copy so that edits to the copy never reach the original.
func (es Entries) Clone() Entries {
	if es == nil {
		return nil
	}
	out := make(Entries, len(es))
	for i, e := range es {
		c := *e
		out[i] = &c
	}
	return out
}

// Names returns the entry names in list order.
func (es Entries) Names() []string {
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.Name
	}
	return names
}

// Equal reports whether both lists hold the same names, types and values in the same order.
func (es Entries) Equal(other Entries) bool {
	if len(es) != len(other) {
		return false
	}
	for i := range es {
		a, b := es[i], other[i]
		if a.Name != b.Name || a.Type != b.Type || a.Value != b.Value {
			return false
		}
	}
	return true
}

// Reconcile merges a freshly reloaded list into a before-image.
//
// Entries known before keep their position and take the reloaded type, value,
// help and advanced flag. Entries that vanished from the reload are dropped.
// Entries only present in the reload are appended in reload order with New set.
// The returned added and removed slices list the affected names.
func Reconcile(before, after Entries) (merged Entries, added, removed []string) {
	merged = make(Entries, 0, len(after))
	for _, old := range before {
		fresh := after.Lookup(old.Name)
		if fresh == nil {
			removed = append(removed, old.Name)
			continue
		}
		e := *fresh
		e.New = old.New
		merged = append(merged, &e)
	}
	for _, fresh := range after {
		if before.Index(fresh.Name) >= 0 {
			continue
		}
		e := *fresh
		e.New = true
		merged = append(merged, &e)
		added = append(added, fresh.Name)
	}
	return merged, added, removed
}
