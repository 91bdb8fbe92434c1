package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type VendedorInsert struct {
	ID        *string    `json:"id"         validate:"omitempty,uuid"`
	Nombre    string     `json:"nombre"     validate:"required,min=1,max=120"`
	Email     *string    `json:"email"      validate:"omitempty,email"`
	Telefono  *string    `json:"telefono"`
	CreatedAt *time.Time `json:"created_at"`
}

type VendedorUpdate struct {
	Nombre   *string          `json:"nombre"   validate:"omitempty,min=1,max=120"`
	Email    Opcional[string] `json:"email"`
	Telefono Opcional[string] `json:"telefono"`
}

func (r VendedorInsert) ValidarReglas() map[string]string {
	v := violaciones{}
	v.nombre("nombre", &r.Nombre)
	return v.mapa()
}

func (u VendedorUpdate) ValidarReglas() map[string]string {
	v := violaciones{}
	v.nombre("nombre", u.Nombre)
	v.opcional("email", u.Email, "email")
	return v.mapa()
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VendedorResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Email     *string `json:"email"`
	Telefono  *string `json:"telefono"`
	CreatedAt string  `json:"created_at"`
}
