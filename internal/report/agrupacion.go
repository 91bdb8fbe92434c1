package report

import "fmt"

// Agrupacion selects which rollup of a ReportStats is displayed.
type Agrupacion string

const (
	AgrupacionGeneral     Agrupacion = "general"
	AgrupacionPorCliente  Agrupacion = "perClient"
	AgrupacionPorVendedor Agrupacion = "perVendor"
	AgrupacionPorRubro    Agrupacion = "perCategory"
)

// Agrupaciones lists every mode in display order.
var Agrupaciones = []Agrupacion{
	AgrupacionGeneral,
	AgrupacionPorCliente,
	AgrupacionPorVendedor,
	AgrupacionPorRubro,
}

// ParseAgrupacion maps a query value to a mode. Empty means general.
func ParseAgrupacion(s string) (Agrupacion, error) {
	if s == "" {
		return AgrupacionGeneral, nil
	}
	for _, a := range Agrupaciones {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("agrupación desconocida %q", s)
}
