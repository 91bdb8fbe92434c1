package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// MapaTalles maps a size label ("8", "8.5", "M") to a quantity. It backs both
// the weights of a Curva and the per-size breakdown of an ItemPedido, and is
// stored as a JSON document column.
type MapaTalles map[string]int

// Upper bounds on line quantities. Curve count × weight stays far below the
// int range.
const (
	MaxCurvasPorItem = 10000
	MaxPesoTalle     = 1000
)

// FueraDeRango returns a size whose quantity is negative or above tope, and
// false when every quantity is in range.
func (m MapaTalles) FueraDeRango(tope int) (string, bool) {
	for talle, q := range m {
		if q < 0 || q > tope {
			return talle, true
		}
	}
	return "", false
}

// Total sums every size quantity.
func (m MapaTalles) Total() int {
	total := 0
	for _, q := range m {
		total += q
	}
	return total
}

// Multiplicar returns a new map with every quantity scaled by n.
func (m MapaTalles) Multiplicar(n int) MapaTalles {
	out := make(MapaTalles, len(m))
	for talle, q := range m {
		out[talle] = q * n
	}
	return out
}

func (m MapaTalles) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *MapaTalles) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*m = MapaTalles{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("MapaTalles: tipo no soportado %T", src)
	}
	if len(raw) == 0 {
		*m = MapaTalles{}
		return nil
	}
	out := MapaTalles{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return errors.Join(errors.New("MapaTalles: json inválido"), err)
	}
	*m = out
	return nil
}
