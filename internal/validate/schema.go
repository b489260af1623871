package validate

import (
	"sort"
	"strings"
)

// Values holds raw form input keyed by field name. A missing key is treated
// the same as an empty value.
type Values map[string]string

// Get returns the value for field, or "".
func (v Values) Get(field string) string {
	return v[field]
}

// Clone returns a copy that can be mutated independently.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Field binds a rule to a named form field.
type Field struct {
	Name  string
	Label string
	Rule  Rule
}

// Schema is the fixed, ordered rule table of one form.
type Schema []Field

// Validate checks every field and aggregates all violations.
func (s Schema) Validate(values Values) Errors {
	errs := Errors{}
	for _, f := range s {
		if msg := Check(f.Name, f.Label, values[f.Name], f.Rule); msg != "" {
			errs[f.Name] = msg
		}
	}
	return errs
}

// ValidateField checks a single field of the schema; unknown fields are valid.
func (s Schema) ValidateField(name string, values Values) string {
	for _, f := range s {
		if f.Name == name {
			return Check(f.Name, f.Label, values[f.Name], f.Rule)
		}
	}
	return ""
}

// Errors maps a field name to its validation message. Submission is blocked
// while it is non-empty.
type Errors map[string]string

// Empty reports whether there are no errors.
func (e Errors) Empty() bool {
	return len(e) == 0
}

// Fields returns the failing field names, sorted.
func (e Errors) Fields() []string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, k := range e.Fields() {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
