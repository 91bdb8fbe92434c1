package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// Size weights are capped at model.MaxPesoTalle.
type CurvaInsert struct {
	ID        *string        `json:"id"         validate:"omitempty,uuid"`
	Nombre    string         `json:"nombre"     validate:"required,min=1,max=80"`
	Genero    string         `json:"genero"     validate:"max=30"`
	Talles    map[string]int `json:"talles"     validate:"required,min=1,dive,keys,required,endkeys,min=1,max=1000"`
	CreatedAt *time.Time     `json:"created_at"`
}

type CurvaUpdate struct {
	Nombre *string        `json:"nombre" validate:"omitempty,min=1,max=80"`
	Genero *string        `json:"genero" validate:"omitempty,max=30"`
	Talles map[string]int `json:"talles" validate:"omitempty,min=1,dive,keys,required,endkeys,min=1,max=1000"`
}

func (r CurvaInsert) ValidarReglas() map[string]string {
	v := violaciones{}
	v.nombre("nombre", &r.Nombre)
	return v.mapa()
}

func (u CurvaUpdate) ValidarReglas() map[string]string {
	v := violaciones{}
	v.nombre("nombre", u.Nombre)
	return v.mapa()
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CurvaResponse struct {
	ID            string         `json:"id"`
	Nombre        string         `json:"nombre"`
	Genero        string         `json:"genero"`
	Talles        map[string]int `json:"talles"`
	TotalUnidades int            `json:"total_unidades"`
	CreatedAt     string         `json:"created_at"`
}
