package wegue

import (
	"encoding/json"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
	"gopkg.in/yaml.v3"
)

// Optional is a value that may be logically unset. Unset values are dropped
// from JSON output by the `omitzero` tag; set values are always emitted,
// including false, 0 and empty containers.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it is set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// Or returns the value if set, otherwise def.
func (o Optional[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// IsSet reports whether the value is set.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsZero reports whether the value is unset. encoding/json consults it for
// `omitzero`.
func (o Optional[T]) IsZero() bool {
	return !o.set
}

// Schema documents an Optional as its underlying type in OpenAPI.
func (o Optional[T]) Schema(r huma.Registry) *huma.Schema {
	return r.Schema(reflect.TypeFor[T](), true, "")
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return marshalLiteral(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

func (o *Optional[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
