package callauth

import "google.golang.org/grpc/metadata"

// Header is one metadata name with its ordered values.
type Header struct {
	Name   string
	Values []string
}

// Headers is the ordered set of metadata entries returned by a
// credential provider. Entry order and per-name value order are
// provider order; names are case-sensitive ASCII tokens.
type Headers []Header

// Add appends values under name, extending the existing entry when the
// name was already recorded.
func (h *Headers) Add(name string, values ...string) {
	for i := range *h {
		if (*h)[i].Name == name {
			(*h)[i].Values = append((*h)[i].Values, values...)
			return
		}
	}
	*h = append(*h, Header{Name: name, Values: append([]string(nil), values...)})
}

// Get returns the values recorded under name, in insertion order.
func (h Headers) Get(name string) []string {
	for _, entry := range h {
		if entry.Name == name {
			return entry.Values
		}
	}
	return nil
}

// MergeHeaders returns a copy of md with every provider value appended
// under its name, preserving provider order and multiplicity. Entries
// already present in md are kept; nothing is deduplicated. Names keep
// their case, so keys are written directly rather than through the
// metadata helpers.
func MergeHeaders(h Headers, md metadata.MD) metadata.MD {
	merged := make(metadata.MD, len(md)+len(h))
	for name, values := range md {
		merged[name] = append([]string(nil), values...)
	}
	for _, entry := range h {
		merged[entry.Name] = append(merged[entry.Name], entry.Values...)
	}
	return merged
}
