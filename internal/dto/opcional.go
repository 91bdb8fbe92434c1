package dto

import "encoding/json"

// Opcional distinguishes, inside a PATCH body, a field that was omitted
// (Set=false) from one explicitly set to null (Set=true, Null=true).
type Opcional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Opcional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o Opcional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Ptr returns nil when the field was cleared, or a pointer to the value.
func (o Opcional[T]) Ptr() *T {
	if o.Null {
		return nil
	}
	v := o.Value
	return &v
}
