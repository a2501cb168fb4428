package domain

import "sync"

// Schema is the ordered set of field names observed over the process
// lifetime. It only grows: once a field name is seen it is never removed,
// which keeps exported tables column-stable across appends.
type Schema struct {
	mu      sync.Mutex
	columns []string
	seen    map[string]struct{}
}

func NewSchema(initial ...string) *Schema {
	s := &Schema{seen: make(map[string]struct{}, len(initial))}
	s.Add(initial...)
	return s
}

// Add registers field names in first-seen order and returns the ones that
// were new. Re-adding a known field is a no-op, so schema growth is
// idempotent.
func (s *Schema) Add(fields ...string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added []string
	for _, field := range fields {
		if field == "" {
			continue
		}
		if _, ok := s.seen[field]; ok {
			continue
		}
		s.seen[field] = struct{}{}
		s.columns = append(s.columns, field)
		added = append(added, field)
	}
	return added
}

// Columns returns the authoritative column order for persistence.
func (s *Schema) Columns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

func (s *Schema) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.columns)
}
