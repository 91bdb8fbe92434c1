package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProductoInsert struct {
	ID            *string          `json:"id"             validate:"omitempty,uuid"`
	SKU           string           `json:"sku"            validate:"required,min=1,max=40"`
	Nombre        string           `json:"nombre"         validate:"required,min=1,max=160"`
	Rubro         string           `json:"rubro"          validate:"required,min=1,max=60"`
	Linea         string           `json:"linea"          validate:"max=60"`
	Genero        string           `json:"genero"         validate:"max=30"`
	PrecioUSD     *decimal.Decimal `json:"precio_usd"     validate:"omitempty,min=0"`
	Tier          string           `json:"tier"           validate:"required,oneof=bronce plata oro platino"`
	FechaDespacho *time.Time       `json:"fecha_despacho"`
	ImagenURL     *string          `json:"imagen_url"     validate:"omitempty,url"`
	GamePlan      *bool            `json:"game_plan"`
	CreatedAt     *time.Time       `json:"created_at"`
}

// ValidarReglas requires precio_usd: an absent price must not become 0.
func (r ProductoInsert) ValidarReglas() map[string]string {
	v := violaciones{}
	if r.PrecioUSD == nil {
		v["precio_usd"] = "required"
	}
	v.nombre("sku", &r.SKU)
	v.nombre("nombre", &r.Nombre)
	v.nombre("rubro", &r.Rubro)
	return v.mapa()
}

type ProductoUpdate struct {
	SKU           *string             `json:"sku"            validate:"omitempty,min=1,max=40"`
	Nombre        *string             `json:"nombre"         validate:"omitempty,min=1,max=160"`
	Rubro         *string             `json:"rubro"          validate:"omitempty,min=1,max=60"`
	Linea         *string             `json:"linea"          validate:"omitempty,max=60"`
	Genero        *string             `json:"genero"         validate:"omitempty,max=30"`
	PrecioUSD     *decimal.Decimal    `json:"precio_usd"     validate:"omitempty,min=0"`
	Tier          *string             `json:"tier"           validate:"omitempty,oneof=bronce plata oro platino"`
	FechaDespacho Opcional[time.Time] `json:"fecha_despacho"`
	ImagenURL     Opcional[string]    `json:"imagen_url"`
	GamePlan      Opcional[bool]      `json:"game_plan"`
}

func (u ProductoUpdate) ValidarReglas() map[string]string {
	v := violaciones{}
	v.nombre("sku", u.SKU)
	v.nombre("nombre", u.Nombre)
	v.nombre("rubro", u.Rubro)
	v.opcional("imagen_url", u.ImagenURL, "url")
	return v.mapa()
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Rubro    string `form:"rubro"`
	Genero   string `form:"genero"`
	Linea    string `form:"linea"`
	Nombre   string `form:"nombre"`
	GamePlan *bool  `form:"game_plan"`
	// Tiers restricts the result to the given tiers; empty = every tier
	Tiers []string `form:"-"`
	Page  int      `form:"page,default=1"   validate:"min=1"`
	Limit int      `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Nombre        string          `json:"nombre"`
	Rubro         string          `json:"rubro"`
	Linea         string          `json:"linea"`
	Genero        string          `json:"genero"`
	PrecioUSD     decimal.Decimal `json:"precio_usd"`
	Tier          string          `json:"tier"`
	FechaDespacho *string         `json:"fecha_despacho"`
	ImagenURL     *string         `json:"imagen_url"`
	GamePlan      bool            `json:"game_plan"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
