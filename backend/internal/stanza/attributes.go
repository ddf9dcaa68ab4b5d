package stanza

// Attributes is an ordered multimap from key to the values seen for it.
// Keys keep first-seen order; values keep the order they were added.
type Attributes struct {
	keys   []string
	values map[string][]string
}

// NewAttributes creates an empty attribute bag
func NewAttributes() *Attributes {
	return &Attributes{values: make(map[string][]string)}
}

// Add appends value to key's value list
func (a *Attributes) Add(key, value string) {
	if _, ok := a.values[key]; !ok {
		a.keys = append(a.keys, key)
	}
	a.values[key] = append(a.values[key], value)
}

// Get returns the values recorded for key (nil if absent)
func (a *Attributes) Get(key string) []string {
	if a == nil {
		return nil
	}
	return a.values[key]
}

// Has reports whether key is present
func (a *Attributes) Has(key string) bool {
	if a == nil {
		return false
	}
	_, ok := a.values[key]
	return ok
}

// Delete removes key and all of its values
func (a *Attributes) Delete(key string) {
	if _, ok := a.values[key]; !ok {
		return
	}
	delete(a.values, key)
	for i, k := range a.keys {
		if k == key {
			a.keys = append(a.keys[:i:i], a.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in first-seen order
func (a *Attributes) Keys() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.keys))
	copy(out, a.keys)
	return out
}

// Len returns the number of distinct keys
func (a *Attributes) Len() int {
	if a == nil {
		return 0
	}
	return len(a.keys)
}

// Clone returns a deep copy; mutating the clone never touches a.
func (a *Attributes) Clone() *Attributes {
	out := NewAttributes()
	if a == nil {
		return out
	}
	for _, k := range a.keys {
		out.keys = append(out.keys, k)
		out.values[k] = append([]string(nil), a.values[k]...)
	}
	return out
}

// Map returns a copy of the bag as a plain map, for JSON output.
func (a *Attributes) Map() map[string][]string {
	out := make(map[string][]string, a.Len())
	for _, k := range a.Keys() {
		out[k] = append([]string(nil), a.values[k]...)
	}
	return out
}
