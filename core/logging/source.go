package logging

import (
	"errors"
	"reflect"
)

// ErrNoSource is returned when no source identifier is available.
var ErrNoSource = errors.New("logging: source is required")

// SourceOf returns the fully qualified type name of v, for example
// "github.com/acme/shop/orders.Service". Pointers are dereferenced, so a
// typed nil such as (*orders.Service)(nil) names the type without an
// instance. A reflect.Type is used as is. A nil v fails with ErrNoSource.
func SourceOf(v any) (string, error) {
	if v == nil {
		return "", ErrNoSource
	}
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t == nil {
		return "", ErrNoSource
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch {
	case t.Name() == "":
		return t.String(), nil
	case t.PkgPath() == "":
		return t.Name(), nil
	default:
		return t.PkgPath() + "." + t.Name(), nil
	}
}
