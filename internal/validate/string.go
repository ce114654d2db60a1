package validate

import (
	"fmt"
	"unicode/utf8"

	"github.com/getkin/kin-openapi/openapi3"
)

type StringRule struct {
	// Value to validate
	Value string
	// Name of the field in json.
	Name string

	// MinLength is the minimum allowed length of the string in characters.
	MinLength int
	// MaxLength is the maximum allowed length of the string in characters.
	MaxLength int
}

func (s StringRule) DescribeSchema(parent *openapi3.Schema) {
	schema := schemaForProperty(parent, s.Name)

	schema.MinLength = uint64(s.MinLength)
	if s.MaxLength > 0 {
		max := uint64(s.MaxLength)
		schema.MaxLength = &max
	}
}

func (s StringRule) Validate() *Failure {
	if s.Value == "" {
		return nil
	}

	length := utf8.RuneCountInString(s.Value)

	var problems []string
	if s.MinLength > 0 && length < s.MinLength {
		problems = append(problems, fmt.Sprintf("must be at least %d characters long", s.MinLength))
	}
	if s.MaxLength > 0 && length > s.MaxLength {
		problems = append(problems, fmt.Sprintf("must be no more than %d characters long", s.MaxLength))
	}

	if len(problems) > 0 {
		return fail(s.Name, problems...)
	}
	return nil
}

// Matches returns a validation rule that checks the value of a confirmation
// field is identical to the field it confirms. Unlike the other rules an empty
// confirmation fails when the original has a value.
func Matches(name string, value string, other Field) ValidationRule {
	return matches{name: name, value: value, other: other}
}

// Field is used to construct validation rules that incorporate multiple fields.
type Field struct {
	Name  string
	Value string
}

type matches struct {
	name  string
	value string
	other Field
}

func (m matches) Validate() *Failure {
	if m.value != m.other.Value {
		return fail(m.name, "does not match "+m.other.Name)
	}
	return nil
}

func (m matches) DescribeSchema(*openapi3.Schema) {}
