package model

// Tier segments clients and products. Order matters: a client sees every
// product whose tier rank is lower than or equal to its own.
type Tier string

const (
	TierBronce  Tier = "bronce"
	TierPlata   Tier = "plata"
	TierOro     Tier = "oro"
	TierPlatino Tier = "platino"
)

var tierRank = map[Tier]int{
	TierBronce:  0,
	TierPlata:   1,
	TierOro:     2,
	TierPlatino: 3,
}

// Valid reports whether t belongs to the fixed tier set.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// Rank returns the position of t in the tier ladder, -1 when unknown.
func (t Tier) Rank() int {
	r, ok := tierRank[t]
	if !ok {
		return -1
	}
	return r
}

// TiersHasta returns every tier whose rank is <= t, lowest first.
func TiersHasta(t Tier) []Tier {
	out := make([]Tier, 0, len(tierRank))
	for _, candidate := range []Tier{TierBronce, TierPlata, TierOro, TierPlatino} {
		if candidate.Rank() <= t.Rank() {
			out = append(out, candidate)
		}
	}
	return out
}

// Rol: "admin" | "cliente" | "vendedor_cliente"
type Rol string

const (
	RolAdmin           Rol = "admin"
	RolCliente         Rol = "cliente"
	RolVendedorCliente Rol = "vendedor_cliente"
)

func (r Rol) Valid() bool {
	switch r {
	case RolAdmin, RolCliente, RolVendedorCliente:
		return true
	}
	return false
}

// RequiereCliente is true for client-scoped roles.
func (r Rol) RequiereCliente() bool {
	return r == RolCliente || r == RolVendedorCliente
}

// EstadoPedido: "pendiente" | "confirmado" | "despachado" | "cancelado"
type EstadoPedido string

const (
	EstadoPendiente  EstadoPedido = "pendiente"
	EstadoConfirmado EstadoPedido = "confirmado"
	EstadoDespachado EstadoPedido = "despachado"
	EstadoCancelado  EstadoPedido = "cancelado"
)

func (e EstadoPedido) Valid() bool {
	switch e {
	case EstadoPendiente, EstadoConfirmado, EstadoDespachado, EstadoCancelado:
		return true
	}
	return false
}

// Well-known rubros. Products may carry any other category name.
const (
	RubroCalzados = "calzados"
	RubroPrendas  = "prendas"
)
