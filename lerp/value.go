package lerp

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind identifies which field of a Value carries data.
type Kind int

const (
	// KindInvalid is the zero Kind. It interpolates numerically.
	KindInvalid Kind = iota
	KindNumber
	KindColor
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindColor:
		return "color"
	case KindString:
		return "string"
	default:
		return "invalid"
	}
}

// Value is an animatable property value: a number, a Color record or an
// opaque string.
type Value struct {
	Kind Kind
	Num  float64
	Col  Color
	Str  string
}

// Number creates a numeric Value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// RGB creates an opaque Color Value without alpha.
func RGB(r, g, b float64) Value {
	return Value{Kind: KindColor, Col: Color{R: r, G: g, B: b}}
}

// RGBA creates a Color Value with alpha in [0,1].
func RGBA(r, g, b, a float64) Value {
	return Value{Kind: KindColor, Col: Color{R: r, G: g, B: b, A: a, HasAlpha: true}}
}

// ColorValue wraps an existing Color.
func ColorValue(c Color) Value {
	return Value{Kind: KindColor, Col: c}
}

// String creates a string Value. Colour-looking strings stay strings and
// are blended through StringLerp.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Equal reports whether two values hold the same data.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindColor:
		return v.Col == o.Col
	case KindString:
		return v.Str == o.Str
	default:
		return v.Num == o.Num
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindColor:
		return v.Col.String()
	case KindString:
		return v.Str
	default:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
}

type colorJSON struct {
	R float64  `json:"r"`
	G float64  `json:"g"`
	B float64  `json:"b"`
	A *float64 `json:"a,omitempty"`
}

// MarshalJSON encodes numbers as JSON numbers, strings as JSON strings and
// colours as {r,g,b,a?} objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindColor:
		c := colorJSON{R: v.Col.R, G: v.Col.G, B: v.Col.B}
		if v.Col.HasAlpha {
			a := v.Col.A
			c.A = &a
		}
		return json.Marshal(c)
	case KindString:
		return json.Marshal(v.Str)
	default:
		return json.Marshal(v.Num)
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch t := raw.(type) {
	case float64:
		*v = Number(t)
	case string:
		*v = String(t)
	case map[string]interface{}:
		var c colorJSON
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		if _, ok := t["r"]; !ok {
			return fmt.Errorf("lerp: object value without r channel: %s", data)
		}
		col := Color{R: c.R, G: c.G, B: c.B}
		if c.A != nil {
			col.A = *c.A
			col.HasAlpha = true
		}
		*v = ColorValue(col)
	default:
		return fmt.Errorf("lerp: unsupported JSON value %s", data)
	}

	return nil
}
