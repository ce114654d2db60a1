package validate

import (
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
)

// emailPattern is the same loose check the web client applies: something,
// an at sign, something, and no whitespace anywhere.
const emailPattern = `^\S+@\S+$`

var emailRegexp = regexp.MustCompile(emailPattern)

// Email validates a field that should contain an email address.
func Email(name string, value string) ValidationRule {
	return email{name: name, value: value}
}

type email struct {
	name  string
	value string
}

func (e email) Validate() *Failure {
	if e.value == "" {
		return nil
	}
	if !emailRegexp.MatchString(e.value) {
		return fail(e.name, "invalid email address")
	}
	return nil
}

func (e email) DescribeSchema(parent *openapi3.Schema) {
	schema := schemaForProperty(parent, e.name)
	schema.Format = "email"
	schema.Pattern = emailPattern
}
