package domain

// CollectedData is the opaque nested mapping produced by the collectors.
// Consumers read leaf fields defensively through the path accessors and
// never assume a sub-mapping is present.
type CollectedData map[string]any

// MapAt walks the given key path and returns the nested mapping there,
// or an empty map when any segment is missing or not a mapping.
func (d CollectedData) MapAt(path ...string) map[string]any {
	current := map[string]any(d)
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return map[string]any{}
		}
		current = next
	}
	return current
}

// StringAt returns the string leaf at the path, or "" when absent or not
// a string.
func (d CollectedData) StringAt(path ...string) string {
	if len(path) == 0 {
		return ""
	}
	parent := d.MapAt(path[:len(path)-1]...)
	s, _ := parent[path[len(path)-1]].(string)
	return s
}

// IntAt returns the numeric leaf at the path as an int, accepting the
// numeric types JSON decoding and the scrapers produce; 0 when absent.
func (d CollectedData) IntAt(path ...string) int {
	if len(path) == 0 {
		return 0
	}
	parent := d.MapAt(path[:len(path)-1]...)
	switch v := parent[path[len(path)-1]].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	default:
		return 0
	}
}

// HasKey reports whether the leaf at the path exists and is non-nil.
func (d CollectedData) HasKey(path ...string) bool {
	if len(path) == 0 {
		return false
	}
	parent := d.MapAt(path[:len(path)-1]...)
	v, ok := parent[path[len(path)-1]]
	return ok && v != nil
}
