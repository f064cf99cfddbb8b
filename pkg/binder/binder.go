// Package binder populates request structs from HTTP form data using
// struct tags, keeping handlers free of repetitive r.FormValue calls.
//
//	type changePasswordRequest struct {
//		CurrentPassword string `form:"current_password"`
//		NewPassword     string `form:"new_password"`
//	}
//
//	var req changePasswordRequest
//	if err := binder.Form()(r, &req); err != nil { ... }
package binder

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

var (
	ErrMissingContentType   = errors.New("binder: missing content type")
	ErrUnsupportedMediaType = errors.New("binder: unsupported media type")
	ErrInvalidForm          = errors.New("binder: failed to parse form data")
	ErrInvalidTarget        = errors.New("binder: target must be a non-nil struct pointer")
)

// Form returns a binder for application/x-www-form-urlencoded bodies.
//
// Field mapping follows the `form` struct tag: `form:"name"` binds the
// field, `form:"-"` skips it, untagged fields use the lowercased field
// name. Supported field types are string, bool, integer and float kinds,
// slices of those for repeated values, and pointers for optional fields.
func Form() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		contentType := r.Header.Get("Content-Type")
		if contentType == "" {
			return fmt.Errorf("%w: expected application/x-www-form-urlencoded", ErrMissingContentType)
		}

		mediaType := contentType
		if idx := strings.Index(contentType, ";"); idx != -1 {
			mediaType = strings.TrimSpace(contentType[:idx])
		}
		if mediaType != "application/x-www-form-urlencoded" {
			return fmt.Errorf("%w: got %s", ErrUnsupportedMediaType, mediaType)
		}

		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidForm, err)
		}

		return bindValues(v, r.PostForm)
	}
}

func bindValues(v any, values map[string][]string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}

		name, skip := fieldName(field)
		if skip {
			continue
		}

		vals, ok := values[name]
		if !ok || len(vals) == 0 {
			continue
		}

		if err := setField(rv.Field(i), vals); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidForm, name, err)
		}
	}
	return nil
}

func fieldName(field reflect.StructField) (name string, skip bool) {
	tag := field.Tag.Get("form")
	if tag == "-" {
		return "", true
	}
	if tag == "" {
		return strings.ToLower(field.Name), false
	}
	if idx := strings.Index(tag, ","); idx != -1 {
		tag = tag[:idx]
	}
	return tag, false
}

func setField(field reflect.Value, vals []string) error {
	if field.Kind() == reflect.Ptr {
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), vals); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if field.Kind() == reflect.Slice {
		slice := reflect.MakeSlice(field.Type(), len(vals), len(vals))
		for i, val := range vals {
			if err := setScalar(slice.Index(i), val); err != nil {
				return err
			}
		}
		field.Set(slice)
		return nil
	}

	return setScalar(field, vals[0])
}

func setScalar(field reflect.Value, val string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(val)
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(val, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(val, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(val, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}
