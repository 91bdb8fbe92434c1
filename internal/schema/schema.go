// Package schema is the write boundary: every Insert / Update payload is
// decoded and validated here before it can reach a repository. A payload
// with an unknown field, a field of the wrong type or a missing required
// field is rejected with a *Violation.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal is validated as a number so that min=0 / gt=0 work.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report JSON names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// Violation is a rejected payload. Campos maps a JSON field path to the rule
// it broke ("required", "unknown", "type", "uuid", ...).
type Violation struct {
	Campos map[string]string
	// Sintaxis is set when the body was not parseable JSON at all
	Sintaxis bool
}

func (v *Violation) Error() string {
	keys := make([]string, 0, len(v.Campos))
	for k := range v.Campos {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+v.Campos[k])
	}
	return "violación de esquema: " + strings.Join(parts, ", ")
}

// Validable is implemented by payloads with rules struct tags cannot express.
type Validable interface {
	ValidarReglas() map[string]string
}

// AsViolation unwraps err into a *Violation.
func AsViolation(err error) (*Violation, bool) {
	var v *Violation
	ok := errors.As(err, &v)
	return v, ok
}

// Decode reads exactly one JSON document from r into dst (a pointer) and
// validates it. Unknown fields are rejected.
func Decode(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fromDecodeError(err)
	}
	if dec.More() {
		return &Violation{Campos: map[string]string{"_": "multiple_documents"}, Sintaxis: true}
	}
	return Validate(dst)
}

// Validate runs struct tags and ValidarReglas on v.
func Validate(v any) error {
	campos := make(map[string]string)
	if err := validate.Struct(v); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			return fmt.Errorf("schema: %w", err)
		}
		for _, fe := range ves {
			campos[fieldPath(fe)] = fe.Tag()
		}
	}
	if r, ok := v.(Validable); ok {
		for k, rule := range r.ValidarReglas() {
			if _, exists := campos[k]; !exists {
				campos[k] = rule
			}
		}
	}
	if len(campos) > 0 {
		return &Violation{Campos: campos}
	}
	return nil
}

// fieldPath drops the root struct name: "PedidoInsert.items[0].curva_count"
// becomes "items[0].curva_count".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fromDecodeError(err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return &Violation{Campos: map[string]string{"_": "empty_body"}, Sintaxis: true}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &Violation{Campos: map[string]string{"_": "json"}, Sintaxis: true}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = "_"
		}
		return &Violation{Campos: map[string]string{field: "type"}}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &Violation{Campos: map[string]string{field: "unknown"}}
	default:
		// Values rejected by a field's own UnmarshalJSON (decimal, time, ...)
		return &Violation{Campos: map[string]string{"_": "type"}}
	}
}

// Campo builds a single-field violation, used by services for rules that
// need storage (a referenced row that does not exist).
func Campo(campo, regla string) *Violation {
	return &Violation{Campos: map[string]string{campo: regla}}
}
