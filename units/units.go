// Package units converts the length units accepted in .folio documents
// and on the command line. Layout works in millimetres throughout.
package units

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the original unit of a length value.
type Unit int

const (
	UnitNone Unit = iota // unit-less numbers like factors
	UnitMM
	UnitCM
	UnitIN
	UnitPT
	UnitPX // CSS pixel, 1/96 in
)

// Conversion constants.
const (
	PtToMm = 25.4 / 72
	MmToPt = 1.0 / PtToMm
	PxToMm = 25.4 / 96
)

var suffixes = []struct {
	s string
	u Unit
}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}, {"px", UnitPX}}

// String returns the short suffix of u.
func (u Unit) String() string {
	for _, s := range suffixes {
		if s.u == u {
			return s.s
		}
	}
	return ""
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// MM builds a millimetre length.
func MM(v float64) Length { return Length{Value: v, Unit: UnitMM} }

// PT builds a point length.
func PT(v float64) Length { return Length{Value: v, Unit: UnitPT} }

// PX builds a CSS pixel length.
func PX(v float64) Length { return Length{Value: v, Unit: UnitPX} }

func (l Length) IsZero() bool { return l.Value == 0 }

// ToMM converts to millimetres. Unit-less values are taken as millimetres.
func (l Length) ToMM() float64 {
	switch l.Unit {
	case UnitCM:
		return l.Value * 10
	case UnitIN:
		return l.Value * 25.4
	case UnitPT:
		return l.Value * PtToMm
	case UnitPX:
		return l.Value * PxToMm
	default:
		return l.Value
	}
}

// ToPT converts to points.
func (l Length) ToPT() float64 {
	if l.Unit == UnitPT {
		return l.Value
	}
	return l.ToMM() * MmToPt
}

func (l Length) String() string {
	return strconv.FormatFloat(l.Value, 'f', -1, 64) + l.Unit.String()
}

// Parse reads a length such as "40px", "12pt" or "10.5mm". A bare number
// keeps UnitNone.
func Parse(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("units: empty length")
	}
	unit := UnitNone
	num := v
	for _, suf := range suffixes {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("units: invalid length %q: %w", value, err)
	}
	if f < 0 {
		return Length{}, fmt.Errorf("units: negative length %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind distinguishes factor-based vs absolute line-height specification.
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec is either a factor of the font size (1.625x) or an absolute length.
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ResolveMM computes the absolute line height in mm for the given font size.
func (s LineHeightSpec) ResolveMM(fontSize Length) float64 {
	switch s.Kind {
	case LineHeightAbsolute:
		return s.Len.ToMM()
	default:
		f := s.Factor
		if f <= 0 {
			f = 1.4
		}
		return fontSize.ToMM() * f
	}
}
