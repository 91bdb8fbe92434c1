package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type UserRoleInsert struct {
	ID        *string    `json:"id"         validate:"omitempty,uuid"`
	UserID    string     `json:"user_id"    validate:"required,uuid"`
	Role      string     `json:"role"       validate:"required,oneof=admin cliente vendedor_cliente"`
	ClienteID *string    `json:"cliente_id" validate:"omitempty,uuid"`
	CreatedAt *time.Time `json:"created_at"`
}

// ValidarReglas enforces cliente_id on client-scoped roles.
func (r UserRoleInsert) ValidarReglas() map[string]string {
	if (r.Role == "cliente" || r.Role == "vendedor_cliente") && (r.ClienteID == nil || *r.ClienteID == "") {
		return map[string]string{"cliente_id": "required_for_role"}
	}
	return nil
}

type UserRoleUpdate struct {
	Role      *string          `json:"role"       validate:"omitempty,oneof=admin cliente vendedor_cliente"`
	ClienteID Opcional[string] `json:"cliente_id"`
}

func (u UserRoleUpdate) ValidarReglas() map[string]string {
	if u.ClienteID.Set && !u.ClienteID.Null && !esUUID(u.ClienteID.Value) {
		return map[string]string{"cliente_id": "uuid"}
	}
	return nil
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserRoleResponse struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Role      string  `json:"role"`
	ClienteID *string `json:"cliente_id"`
	CreatedAt string  `json:"created_at"`
}

// MeResponse describes the authenticated caller.
type MeResponse struct {
	UserID    string  `json:"user_id"`
	Admin     bool    `json:"admin"`
	ClienteID *string `json:"cliente_id"`
	Tier      *string `json:"tier"`
}
