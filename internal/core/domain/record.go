package domain

import "sort"

// SourceStrategy identifies which extraction pass produced a field candidate.
type SourceStrategy string

const (
	SourceKeyValue SourceStrategy = "keyvalue"
	SourcePattern  SourceStrategy = "pattern"
	SourceEntity   SourceStrategy = "entity"
)

// Rank orders strategies for conflict resolution. Lower wins: explicit
// label:value lines beat pattern matches, which beat enricher output.
func (s SourceStrategy) Rank() int {
	switch s {
	case SourceKeyValue:
		return 0
	case SourcePattern:
		return 1
	case SourceEntity:
		return 2
	default:
		return 3
	}
}

// FieldCandidate is a single (field, value) pair proposed by one strategy.
type FieldCandidate struct {
	Field  string         `json:"field"`
	Value  string         `json:"value"`
	Source SourceStrategy `json:"source"`
}

// Canonical field names the pipeline sets itself.
const (
	FieldDate  = "Date"
	FieldNotes = "Notes"
)

// CoreFields is the schema-known column set every registry starts with.
// Order matters: it is the initial column order of a fresh export table.
func CoreFields() []string {
	return []string{
		FieldDate, "Name", "Age", "Gender", "Phone", "Email", "Street",
		"City", "State", "Pincode", "Country", "Company", "Product",
		"Quantity", "Amount", FieldNotes,
	}
}

// Record is one extracted entry: field names mapped to single string values,
// with stable first-set ordering. A field name appears at most once.
type Record struct {
	values map[string]string
	order  []string
}

func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// RecordFromMap builds a record from an unordered field map, inserting
// fields in sorted name order so callers get deterministic behavior.
func RecordFromMap(fields map[string]string) *Record {
	r := NewRecord()
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		r.Set(name, fields[name])
	}
	return r
}

// Set writes a field, overwriting any previous value. The field keeps its
// original position in the record order.
func (r *Record) Set(field, value string) {
	if field == "" {
		return
	}
	if _, exists := r.values[field]; !exists {
		r.order = append(r.order, field)
	}
	r.values[field] = value
}

// SetIfAbsent writes a field only when it is not already resolved. This is
// the merge primitive behind the keyvalue > pattern > entity precedence.
func (r *Record) SetIfAbsent(field, value string) bool {
	if field == "" || value == "" {
		return false
	}
	if _, exists := r.values[field]; exists {
		return false
	}
	r.order = append(r.order, field)
	r.values[field] = value
	return true
}

func (r *Record) Has(field string) bool {
	_, ok := r.values[field]
	return ok
}

func (r *Record) Value(field string) string {
	return r.values[field]
}

// Fields returns field names in first-set order.
func (r *Record) Fields() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Record) Len() int {
	return len(r.values)
}

func (r *Record) Map() map[string]string {
	out := make(map[string]string, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Project renders the record as one table row under the given column list.
// Missing fields become empty cells.
func (r *Record) Project(columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = r.values[col]
	}
	return row
}

// SaveReceipt reports where an appended record landed.
type SaveReceipt struct {
	Location  string `json:"location"`
	PeriodKey string `json:"period_key"`
	// Recovered is set when an existing table could not be read and the
	// record was written as the sole row of a fresh table.
	Recovered bool `json:"recovered"`
}
