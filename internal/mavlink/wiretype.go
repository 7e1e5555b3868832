package mavlink

import (
	"fmt"
	"strings"
)

// WireType is the resolved binary encoding of a schema field. Field type
// strings are resolved to a WireType once, when the dialect loads, so the
// encoder never re-parses type spellings on the hot path.
type WireType uint8

const (
	WireTypeInvalid WireType = iota
	WireTypeUint8
	WireTypeInt8
	WireTypeUint16
	WireTypeInt16
	WireTypeUint32
	WireTypeInt32
	WireTypeUint64
	WireTypeInt64
	WireTypeFloat32
	WireTypeFloat64
	WireTypeChar
)

// wireTypeTokens maps schema type tokens to wire types, in match order.
// Tokens that contain other tokens come first ("uint8" before "int8",
// "float64" before "float") so spellings like "uint8_t", "double" or
// "char[16]" resolve to the right base type.
var wireTypeTokens = []struct {
	token string
	wt    WireType
}{
	{"uint8", WireTypeUint8},
	{"int8", WireTypeInt8},
	{"uint16", WireTypeUint16},
	{"int16", WireTypeInt16},
	{"uint32", WireTypeUint32},
	{"int32", WireTypeInt32},
	{"uint64", WireTypeUint64},
	{"int64", WireTypeInt64},
	{"float64", WireTypeFloat64},
	{"float32", WireTypeFloat32},
	{"double", WireTypeFloat64},
	{"float", WireTypeFloat32},
	{"char", WireTypeChar},
}

// ResolveWireType maps a schema-declared type string to its WireType.
// Matching is ordered substring search, so dialect spellings with suffixes
// or array brackets still resolve. Unknown types are an error, never a
// silent skip.
func ResolveWireType(raw string) (WireType, error) {
	for _, t := range wireTypeTokens {
		if strings.Contains(raw, t.token) {
			return t.wt, nil
		}
	}
	return WireTypeInvalid, fmt.Errorf("%w: %q", ErrUnsupportedFieldType, raw)
}

// Width returns the packed byte width of the wire type. Invalid types have
// width zero.
func (w WireType) Width() int {
	switch w {
	case WireTypeUint8, WireTypeInt8, WireTypeChar:
		return 1
	case WireTypeUint16, WireTypeInt16:
		return 2
	case WireTypeUint32, WireTypeInt32, WireTypeFloat32:
		return 4
	case WireTypeUint64, WireTypeInt64, WireTypeFloat64:
		return 8
	default:
		return 0
	}
}

// IsFloat reports whether the wire type is a floating-point encoding.
func (w WireType) IsFloat() bool {
	return w == WireTypeFloat32 || w == WireTypeFloat64
}

// IsValid reports whether the wire type is one of the recognized encodings.
func (w WireType) IsValid() bool {
	return w > WireTypeInvalid && w <= WireTypeChar
}

func (w WireType) String() string {
	switch w {
	case WireTypeUint8:
		return "uint8"
	case WireTypeInt8:
		return "int8"
	case WireTypeUint16:
		return "uint16"
	case WireTypeInt16:
		return "int16"
	case WireTypeUint32:
		return "uint32"
	case WireTypeInt32:
		return "int32"
	case WireTypeUint64:
		return "uint64"
	case WireTypeInt64:
		return "int64"
	case WireTypeFloat32:
		return "float32"
	case WireTypeFloat64:
		return "float64"
	case WireTypeChar:
		return "char"
	default:
		return "invalid"
	}
}
