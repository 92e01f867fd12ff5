package model

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/nao1215/tabreport/internal/frame"
)

// Number is a float64 that survives JSON encoding when it is NaN or
// infinite: such values are written as null and null reads back as NaN.
type Number float64

// Float returns n as a float64.
func (n Number) Float() float64 {
	return float64(n)
}

// IsNaN reports whether n is NaN.
func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}

// String formats n the way an interactive data session prints a float:
// the shortest exact representation, always with a fractional part
// ("200.0", "0.25", "1e+21"), and "nan"/"inf"/"-inf" for special values.
func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return frame.FormatFloat(f)
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}
