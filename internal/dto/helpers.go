package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// reglas checks single values of Opcional fields, which struct tags do not reach.
var reglas = validator.New()

func esUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

func cumple(v, tag string) bool {
	return reglas.Var(v, tag) == nil
}

// enBlanco reports an empty or whitespace-only string.
func enBlanco(s string) bool {
	return strings.TrimSpace(s) == ""
}

// violaciones collects field rules; nil when empty so callers can return it as is.
type violaciones map[string]string

// opcional applies the Insert tag "omitempty,<regla>" to a set, non-null value.
func (v violaciones) opcional(campo string, o Opcional[string], regla string) {
	if o.Set && !o.Null && !cumple(o.Value, "omitempty,"+regla) {
		v[campo] = regla
	}
}

func (v violaciones) nombre(campo string, s *string) {
	if s != nil && enBlanco(*s) {
		v[campo] = "required"
	}
}

func (v violaciones) mapa() map[string]string {
	if len(v) == 0 {
		return nil
	}
	return v
}
