package mavlink

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PackPayload serializes values into a message payload: fields in declared
// order, multi-byte types little-endian. Every declared field must have an
// entry in values; a numeric value that does not fit its declared width is
// an error, never a silent truncation.
func PackPayload(fields []Field, values map[string]any) ([]byte, error) {
	size := 0
	for _, f := range fields {
		size += f.Type.Width()
	}
	buf := make([]byte, 0, size)

	for _, f := range fields {
		v, ok := values[f.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFieldValue, f.Name)
		}
		var err error
		buf, err = appendValue(buf, f.Type, v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
	}
	return buf, nil
}

// appendValue encodes one value per its wire type and appends the bytes to
// buf.
func appendValue(buf []byte, wt WireType, v any) ([]byte, error) {
	switch wt {
	case WireTypeUint8:
		u, err := uintValue(v, math.MaxUint8)
		if err != nil {
			return nil, err
		}
		return append(buf, byte(u)), nil
	case WireTypeInt8:
		i, err := intValue(v, math.MinInt8, math.MaxInt8)
		if err != nil {
			return nil, err
		}
		return append(buf, byte(i)), nil
	case WireTypeUint16:
		u, err := uintValue(v, math.MaxUint16)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(u)), nil
	case WireTypeInt16:
		i, err := intValue(v, math.MinInt16, math.MaxInt16)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint16(buf, uint16(i)), nil
	case WireTypeUint32:
		u, err := uintValue(v, math.MaxUint32)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(u)), nil
	case WireTypeInt32:
		i, err := intValue(v, math.MinInt32, math.MaxInt32)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint32(buf, uint32(i)), nil
	case WireTypeUint64:
		u, err := uintValue(v, math.MaxUint64)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(buf, u), nil
	case WireTypeInt64:
		i, err := intValue(v, math.MinInt64, math.MaxInt64)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(buf, uint64(i)), nil
	case WireTypeFloat32:
		f, err := floatValue(v)
		if err != nil {
			return nil, err
		}
		if math.Abs(f) > math.MaxFloat32 && !math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %v overflows float32", ErrValueOutOfRange, f)
		}
		return binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(f))), nil
	case WireTypeFloat64:
		f, err := floatValue(v)
		if err != nil {
			return nil, err
		}
		return binary.LittleEndian.AppendUint64(buf, math.Float64bits(f)), nil
	case WireTypeChar:
		return append(buf, charByte(v)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFieldType, wt)
	}
}

// uintValue coerces v to an unsigned integer no greater than max. Floats
// are accepted when they carry an exact integral value, which is how JSON
// decoding hands integers over.
func uintValue(v any, max uint64) (uint64, error) {
	switch n := v.(type) {
	case uint:
		return checkUint(uint64(n), max)
	case uint8:
		return checkUint(uint64(n), max)
	case uint16:
		return checkUint(uint64(n), max)
	case uint32:
		return checkUint(uint64(n), max)
	case uint64:
		return checkUint(n, max)
	case int:
		return uintFromInt(int64(n), max)
	case int8:
		return uintFromInt(int64(n), max)
	case int16:
		return uintFromInt(int64(n), max)
	case int32:
		return uintFromInt(int64(n), max)
	case int64:
		return uintFromInt(n, max)
	case float32:
		return uintFromFloat(float64(n), max)
	case float64:
		return uintFromFloat(n, max)
	default:
		return 0, fmt.Errorf("%w: %T is not numeric", ErrValueOutOfRange, v)
	}
}

func checkUint(u, max uint64) (uint64, error) {
	if u > max {
		return 0, fmt.Errorf("%w: %d exceeds %d", ErrValueOutOfRange, u, max)
	}
	return u, nil
}

func uintFromInt(i int64, max uint64) (uint64, error) {
	if i < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrValueOutOfRange, i)
	}
	return checkUint(uint64(i), max)
}

func uintFromFloat(f float64, max uint64) (uint64, error) {
	if !isIntegral(f) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrValueOutOfRange, f)
	}
	if f < 0 || f >= 1<<64 {
		return 0, fmt.Errorf("%w: %v", ErrValueOutOfRange, f)
	}
	return checkUint(uint64(f), max)
}

// intValue coerces v to a signed integer within [lo, hi].
func intValue(v any, lo, hi int64) (int64, error) {
	switch n := v.(type) {
	case int:
		return checkInt(int64(n), lo, hi)
	case int8:
		return checkInt(int64(n), lo, hi)
	case int16:
		return checkInt(int64(n), lo, hi)
	case int32:
		return checkInt(int64(n), lo, hi)
	case int64:
		return checkInt(n, lo, hi)
	case uint:
		return intFromUint(uint64(n), lo, hi)
	case uint8:
		return checkInt(int64(n), lo, hi)
	case uint16:
		return checkInt(int64(n), lo, hi)
	case uint32:
		return checkInt(int64(n), lo, hi)
	case uint64:
		return intFromUint(n, lo, hi)
	case float32:
		return intFromFloat(float64(n), lo, hi)
	case float64:
		return intFromFloat(n, lo, hi)
	default:
		return 0, fmt.Errorf("%w: %T is not numeric", ErrValueOutOfRange, v)
	}
}

func checkInt(i, lo, hi int64) (int64, error) {
	if i < lo || i > hi {
		return 0, fmt.Errorf("%w: %d outside [%d, %d]", ErrValueOutOfRange, i, lo, hi)
	}
	return i, nil
}

func intFromUint(u uint64, lo, hi int64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrValueOutOfRange, u)
	}
	return checkInt(int64(u), lo, hi)
}

func intFromFloat(f float64, lo, hi int64) (int64, error) {
	if !isIntegral(f) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrValueOutOfRange, f)
	}
	if f < -(1<<63) || f >= 1<<63 {
		return 0, fmt.Errorf("%w: %v", ErrValueOutOfRange, f)
	}
	return checkInt(int64(f), lo, hi)
}

func isIntegral(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0) && math.Trunc(f) == f
}

// floatValue coerces v to float64. Integer inputs are admitted the way any
// numeric literal would be.
func floatValue(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int8:
		return float64(n), nil
	case int16:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint:
		return float64(n), nil
	case uint8:
		return float64(n), nil
	case uint16:
		return float64(n), nil
	case uint32:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("%w: %T is not numeric", ErrValueOutOfRange, v)
	}
}

// charByte encodes a char field as the first byte of the value's string
// form, or 'A' when that form is empty.
func charByte(v any) byte {
	s := fmt.Sprint(v)
	if s == "" {
		return 'A'
	}
	return s[0]
}
