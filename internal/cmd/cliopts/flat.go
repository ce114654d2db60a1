package cliopts

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/mitchellh/reflectwalk"
	"github.com/spf13/pflag"
)

// flatSource is a source with a single level of keys, like environment
// variables or command line flags. Nested struct fields are addressed by
// joining the field names with separator.
type flatSource struct {
	values    map[string]interface{}
	prefix    string
	format    func(fieldName string) string
	separator string
}

func loadFromEnv(target interface{}, opts Options) error {
	prefix := strings.ToUpper(opts.EnvPrefix)
	source := flatSource{
		values: envWithPrefix(prefix, os.Environ()),
		prefix: prefix,
		format: func(name string) string {
			return strings.ToUpper(strcase.ToSnake(name))
		},
		separator: "_",
	}
	if err := source.decode(target); err != nil {
		return fmt.Errorf("failed to load from environment variables: %w", err)
	}
	return nil
}

// loadFromFlags reads only the flags that were set on the command line. The
// default value of a flag never replaces a value from the file or environment.
func loadFromFlags(target interface{}, opts Options) error {
	values := map[string]interface{}{}
	opts.Flags.VisitAll(func(flag *pflag.Flag) {
		if !flag.Changed {
			return
		}
		if slice, ok := flag.Value.(flagValueSlice); ok {
			values[flag.Name] = slice
			return
		}
		values[flag.Name] = flag.Value.String()
	})

	source := flatSource{values: values, format: strcase.ToKebab, separator: "-"}
	if err := source.decode(target); err != nil {
		return fmt.Errorf("failed to load from command line flag: %w", err)
	}
	return nil
}

func (s flatSource) decode(target interface{}) error {
	if len(s.values) == 0 {
		return nil
	}
	walker := &flatWalker{source: s}
	if s.prefix != "" {
		walker.path = []string{s.prefix}
	}
	return reflectwalk.Walk(target, walker)
}

// flatWalker decodes the source into every struct reachable from the target.
// path holds the formatted names of the struct fields above the current
// struct. An empty element stands for an embedded struct.
type flatWalker struct {
	source flatSource
	path   []string
}

func (w *flatWalker) Enter(reflectwalk.Location) error {
	return nil
}

func (w *flatWalker) Exit(loc reflectwalk.Location) error {
	if loc == reflectwalk.Struct && len(w.path) > 0 {
		w.path = w.path[:len(w.path)-1]
	}
	return nil
}

func (w *flatWalker) Struct(value reflect.Value) error {
	// values reached through an unexported or nil field are not settable
	if !value.CanAddr() {
		return nil
	}

	cfg := DecodeConfig(value.Addr().Interface())
	cfg.WeaklyTypedInput = true
	cfg.MatchName = w.matchName

	decoder, err := mapstructure.NewDecoder(&cfg)
	if err != nil {
		return fmt.Errorf("failed to create decoder for struct: %w", err)
	}
	if err := decoder.Decode(w.source.values); err != nil {
		return fmt.Errorf("failed to decode into struct: %w", err)
	}
	return nil
}

func (w *flatWalker) StructField(field reflect.StructField, value reflect.Value) error {
	isStruct := value.Kind() == reflect.Struct ||
		(value.Kind() == reflect.Ptr && value.Elem().Kind() == reflect.Struct)
	if !isStruct {
		return nil
	}

	if field.Anonymous {
		w.path = append(w.path, "")
		return nil
	}
	w.path = append(w.path, w.source.format(field.Name))
	return nil
}

func (w *flatWalker) matchName(key string, fieldName string) bool {
	parts := make([]string, 0, len(w.path)+1)
	for _, part := range w.path {
		if part != "" {
			parts = append(parts, part)
		}
	}
	parts = append(parts, w.source.format(fieldName))
	return key == strings.Join(parts, w.source.separator)
}

// envWithPrefix returns the environment variables whose names start with
// prefix. Other variables could never match a field.
func envWithPrefix(prefix string, environ []string) map[string]interface{} {
	result := map[string]interface{}{}
	for _, raw := range environ {
		key, value := splitEnv(raw)
		if strings.HasPrefix(key, prefix) {
			result[key] = value
		}
	}
	return result
}

// splitEnv splits a KEY=value pair. On windows the name of some variables
// starts with "=", so the first character always belongs to the key.
func splitEnv(raw string) (string, string) {
	if raw == "" {
		return "", ""
	}
	key, value, _ := strings.Cut(raw[1:], "=")
	return raw[:1] + key, value
}
