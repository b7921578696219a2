package dataset

// Series is single-column labeled data: an ordered list of labels with one
// value per label. It keeps insertion order, unlike a plain map.
type Series struct {
	Labels []string
	Values []any
}

// Add appends a label/value pair.
func (s *Series) Add(label string, v any) {
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, v)
}

// Len returns the number of entries.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Labels)
}

// Get returns the value for a label and whether it is present.
func (s *Series) Get(label string) (any, bool) {
	for i, l := range s.Labels {
		if l == label {
			return s.Values[i], true
		}
	}
	return nil, false
}
