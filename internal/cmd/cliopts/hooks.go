package cliopts

import (
	"reflect"
)

type flagValueSlice interface {
	GetSlice() []string
}

// hookFlagValueSlice decodes a pflag.SliceValue into a slice in the target.
func hookFlagValueSlice(from reflect.Value, _ reflect.Value) (interface{}, error) {
	source := from.Interface()
	if v, ok := source.(flagValueSlice); ok {
		return v.GetSlice(), nil
	}
	return source, nil
}

// FromString is implemented by types that parse themselves, like pflag.Value.
type FromString interface {
	Set(string) error
}

// hookSetFromString sets any target that implements FromString from a string,
// so the same type works as a command line flag, env var, and config value.
func hookSetFromString(from reflect.Value, to reflect.Value) (interface{}, error) {
	source := from.Interface()
	v, ok := source.(string)
	if !ok {
		return source, nil
	}

	fromString, ok := to.Interface().(FromString)
	if !ok && to.CanAddr() {
		fromString, ok = to.Addr().Interface().(FromString)
	}
	if !ok {
		return source, nil
	}

	err := fromString.Set(v)
	return to.Interface(), err
}
