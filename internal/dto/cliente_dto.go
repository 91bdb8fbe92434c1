package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ClienteInsert struct {
	ID         *string    `json:"id"          validate:"omitempty,uuid"`
	Nombre     string     `json:"nombre"      validate:"required,min=1,max=160"`
	Tier       string     `json:"tier"        validate:"required,oneof=bronce plata oro platino"`
	VendedorID *string    `json:"vendedor_id" validate:"omitempty,uuid"`
	Email      *string    `json:"email"       validate:"omitempty,email"`
	CreatedAt  *time.Time `json:"created_at"`
}

type ClienteUpdate struct {
	Nombre     *string          `json:"nombre"      validate:"omitempty,min=1,max=160"`
	Tier       *string          `json:"tier"        validate:"omitempty,oneof=bronce plata oro platino"`
	VendedorID Opcional[string] `json:"vendedor_id"`
	Email      Opcional[string] `json:"email"`
}

func (r ClienteInsert) ValidarReglas() map[string]string {
	v := violaciones{}
	v.nombre("nombre", &r.Nombre)
	return v.mapa()
}

// ValidarReglas applies the Insert rules to the Opcional fields.
func (u ClienteUpdate) ValidarReglas() map[string]string {
	v := violaciones{}
	v.nombre("nombre", u.Nombre)
	v.opcional("vendedor_id", u.VendedorID, "uuid")
	v.opcional("email", u.Email, "email")
	return v.mapa()
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID             string  `json:"id"`
	Nombre         string  `json:"nombre"`
	Tier           string  `json:"tier"`
	VendedorID     *string `json:"vendedor_id"`
	VendedorNombre *string `json:"vendedor_nombre,omitempty"`
	Email          *string `json:"email"`
	CreatedAt      string  `json:"created_at"`
}
