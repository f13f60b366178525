package types

// Snapshot is one partial-result update from the backend. It is an opaque
// document; when it carries a "choices" list, each choice has at least a
// stable integer "index" and the cumulative "content" generated so far for
// that index. Successive snapshots for the same index are monotonically
// non-decreasing prefixes of the final text.
type Snapshot map[string]any

// Choices returns the snapshot's choices as a uniform slice of maps.
// Handles both natively built snapshots ([]map[string]any) and
// JSON-decoded ones ([]any).
func (s Snapshot) Choices() []map[string]any {
	raw, ok := s["choices"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// ChoiceIndex extracts the stable index of a choice, tolerating the numeric
// types JSON decoding produces.
func ChoiceIndex(ch map[string]any) (int, bool) {
	switch v := ch["index"].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
