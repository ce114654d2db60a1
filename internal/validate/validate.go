// Package validate checks request values on the client before they are sent
// to the authority. A request that fails validation is never sent.
package validate

import (
	"reflect"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Validate that the values in the Request struct are valid according to the
// validation rules defined on the struct.
// If validation fails the error will be of type Error.
//
// Validate automatically traverses the fields on the struct. If any of the
// fields are of a type that implement Request, the validation rules of that
// field will be used as well.
func Validate(req Request) error {
	err := validateStruct(reflect.Indirect(reflect.ValueOf(req)))
	if len(err) > 0 {
		return err
	}
	return nil
}

func validateStruct(v reflect.Value) Error {
	err := make(Error)
	if !v.IsValid() {
		return err
	}

	req, ok := v.Interface().(Request)
	if ok && (v.Kind() != reflect.Pointer || !v.IsNil()) {
		for _, rule := range req.ValidationRules() {
			if failure := rule.Validate(); failure != nil {
				err[failure.Name] = append(err[failure.Name], failure.Problems...)
			}
		}
	}

	if v.Kind() == reflect.Pointer && !v.IsNil() {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return err
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		for k, problems := range validateStruct(v.Field(i)) {
			n := name
			switch {
			case field.Anonymous:
				n = k
			case k != "":
				n = name + "." + k
			}
			err[n] = append(err[n], problems...)
		}
	}
	return err
}

// ValidationRule performs validation on one or more struct fields and can
// describe the validation for API documentation.
//
// Validation rules should all default to optional. If the field has a zero value
// then the validation rule will do nothing. Use Required to make something a
// required field.
type ValidationRule interface {
	// Validate should return nil if the validation passes. If the validation
	// fails the Failure should contain the name of the field and the list of
	// problems.
	Validate() *Failure

	// DescribeSchema should update schema to describe the values that are
	// allowed by the validation. The schema is the parent schema of the request.
	DescribeSchema(schema *openapi3.Schema)
}

// Failure describes a validation failure.
type Failure struct {
	// Name of the field as it appears on the wire (the json field name).
	Name string
	// Problems is a list of messages that describe the validation failure.
	Problems []string
}

// Request is implemented by all request structs.
type Request interface {
	ValidationRules() []ValidationRule
}

// Error is a map of field names to errors associated with those fields. Errors
// that are associated with the struct or multiple fields will have a key of
// "".
type Error map[string][]string

func (e Error) Error() string {
	var buf strings.Builder
	buf.WriteString("validation failed: ")
	for i, k := range e.Fields() {
		if i != 0 {
			buf.WriteString(", ")
		}
		if k == "" {
			buf.WriteString(strings.Join(e[k], ", "))
			continue
		}
		buf.WriteString(k + ": " + strings.Join(e[k], ", "))
	}
	return buf.String()
}

// Fields returns the names of the fields with problems in a stable order.
func (e Error) Fields() []string {
	names := make([]string, 0, len(e))
	for k := range e {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Merge returns a new Error containing the problems of both e and other.
func (e Error) Merge(other Error) Error {
	out := make(Error, len(e)+len(other))
	for k, v := range e {
		out[k] = append(out[k], v...)
	}
	for k, v := range other {
		out[k] = append(out[k], v...)
	}
	return out
}

func fail(name string, problems ...string) *Failure {
	return &Failure{Name: name, Problems: problems}
}

type requiredRule struct {
	name  string
	value any
}

// Required checks that the value does not have a zero value.
// Name is the name of the field as visible to the user, often the json field
// name.
func Required(name string, value any) ValidationRule {
	return requiredRule{name: name, value: value}
}

func (r requiredRule) DescribeSchema(schema *openapi3.Schema) {
	schema.Required = append(schema.Required, r.name)
}

func (r requiredRule) Validate() *Failure {
	v := reflect.ValueOf(r.value)
	if v.IsValid() && !v.IsZero() {
		return nil
	}
	return fail(r.name, "is required")
}

// Schema builds the request schema described by the validation rules of req.
func Schema(req Request) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	for _, rule := range req.ValidationRules() {
		rule.DescribeSchema(schema)
	}
	return schema
}

func schemaForProperty(parent *openapi3.Schema, prop string) *openapi3.Schema {
	if parent.Properties == nil {
		parent.Properties = make(openapi3.Schemas)
	}
	if parent.Properties[prop] == nil {
		parent.Properties[prop] = &openapi3.SchemaRef{Value: openapi3.NewStringSchema()}
	}
	return parent.Properties[prop].Value
}

func fieldName(f reflect.StructField) string {
	if name, ok := f.Tag.Lookup("json"); ok {
		name = strings.Split(name, ",")[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return strings.ToLower(f.Name[:1]) + f.Name[1:]
}

// ValidatorFunc wraps a function so that it implements ValidationRule. It can
// be used to create special validations without having to define a type.
// The ValidationRule will have a no-op implementation of DescribeSchema.
type ValidatorFunc func() *Failure

func (f ValidatorFunc) Validate() *Failure {
	return f()
}

func (f ValidatorFunc) DescribeSchema(*openapi3.Schema) {}
