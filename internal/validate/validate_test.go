package validate

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

type ExampleRequest struct {
	ID        string `json:"id"`
	EmailAddr string `json:"emailAddr"`
	Password  string `json:"password"`
	Confirm   string `json:"confirm"`

	Nested *NestedRequest `json:"nested"`
}

func (r ExampleRequest) ValidationRules() []ValidationRule {
	return []ValidationRule{
		Required("id", r.ID),
		Email("emailAddr", r.EmailAddr),
		StringRule{Name: "password", Value: r.Password, MinLength: 8, MaxLength: 12},
		Matches("confirm", r.Confirm, Field{Name: "password", Value: r.Password}),
	}
}

type NestedRequest struct {
	Name string `json:"name"`
}

func (r NestedRequest) ValidationRules() []ValidationRule {
	return []ValidationRule{
		Required("name", r.Name),
	}
}

func TestValidate_AllRules(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := ExampleRequest{
			ID:        "id",
			EmailAddr: "valid@example.com",
			Password:  "password",
			Confirm:   "password",
			Nested:    &NestedRequest{Name: "ok"},
		}
		err := Validate(r)
		assert.NilError(t, err)
	})

	t.Run("with failures", func(t *testing.T) {
		r := ExampleRequest{
			EmailAddr: "nope~example.com",
			Password:  "short",
			Confirm:   "shorter",
			Nested:    &NestedRequest{},
		}
		err := Validate(r)
		assert.ErrorContains(t, err, "validation failed: ")

		var fieldErrs Error
		assert.Assert(t, errors.As(err, &fieldErrs))
		expected := Error{
			"id":          {"is required"},
			"emailAddr":   {"invalid email address"},
			"password":    {"must be at least 8 characters long"},
			"confirm":     {"does not match password"},
			"nested.name": {"is required"},
		}
		assert.DeepEqual(t, fieldErrs, expected)
	})

	t.Run("nil nested request is skipped", func(t *testing.T) {
		r := ExampleRequest{ID: "id"}
		assert.NilError(t, Validate(r))
	})
}

func TestError_Error(t *testing.T) {
	err := Error{
		"zeta":  {"is required"},
		"alpha": {"is too short", "is odd"},
		"":      {"one of (a, b) is required"},
	}
	assert.Equal(t, err.Error(),
		"validation failed: one of (a, b) is required, alpha: is too short, is odd, zeta: is required")
}

func TestError_Merge(t *testing.T) {
	a := Error{"one": {"first"}}
	b := Error{"one": {"second"}, "two": {"third"}}
	assert.DeepEqual(t, a.Merge(b), Error{"one": {"first", "second"}, "two": {"third"}})
	assert.DeepEqual(t, a, Error{"one": {"first"}})
}

type EmailExample struct {
	Address string
}

func (e EmailExample) ValidationRules() []ValidationRule {
	return []ValidationRule{
		Email("addr", e.Address),
	}
}

func TestEmail_Validate(t *testing.T) {
	type testCase struct {
		name        string
		email       string
		expectedErr string
	}

	run := func(t *testing.T, tc testCase) {
		err := Validate(EmailExample{Address: tc.email})
		if tc.expectedErr == "" {
			assert.NilError(t, err)
			return
		}
		assert.Error(t, err, tc.expectedErr)
	}

	testCases := []testCase{
		{name: "standard", email: "myaddr@extra.example.com"},
		{name: "short", email: "a@b.com"},
		{name: "no domain dot", email: "james@example"},
		{name: "empty is optional", email: ""},
		{
			name:        "missing at",
			email:       "james",
			expectedErr: "validation failed: addr: invalid email address",
		},
		{
			name:        "whitespace before at",
			email:       "jam es@example.com",
			expectedErr: "validation failed: addr: invalid email address",
		},
		{
			name:        "trailing whitespace",
			email:       "james@example.com ",
			expectedErr: "validation failed: addr: invalid email address",
		},
		{
			name:        "missing username",
			email:       "@example.com",
			expectedErr: "validation failed: addr: invalid email address",
		},
		{
			name:        "no hostname",
			email:       "sam@",
			expectedErr: "validation failed: addr: invalid email address",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func TestStringRule_CountsCharacters(t *testing.T) {
	r := StringRule{Name: "password", Value: "pässwörd", MinLength: 8}
	assert.Assert(t, r.Validate() == nil)

	r = StringRule{Name: "password", Value: "1234567", MinLength: 8, MaxLength: 10}
	assert.DeepEqual(t, r.Validate(), &Failure{
		Name:     "password",
		Problems: []string{"must be at least 8 characters long"},
	})
}

func TestSchema(t *testing.T) {
	schema := Schema(ExampleRequest{})

	assert.DeepEqual(t, schema.Required, []string{"id"})
	assert.Equal(t, schema.Properties["emailAddr"].Value.Format, "email")
	assert.Equal(t, schema.Properties["emailAddr"].Value.Pattern, emailPattern)

	password := schema.Properties["password"].Value
	assert.Equal(t, password.MinLength, uint64(8))
	assert.Equal(t, *password.MaxLength, uint64(12))

	_, ok := schema.Properties["confirm"]
	assert.Assert(t, !ok)
	assert.Equal(t, schema.Type, "object")
}
