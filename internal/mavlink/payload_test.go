package mavlink

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackPayloadScalars(t *testing.T) {
	tests := []struct {
		name  string
		wt    WireType
		value any
		want  []byte
	}{
		{name: "uint8 max", wt: WireTypeUint8, value: 255, want: []byte{0xFF}},
		{name: "uint8 zero", wt: WireTypeUint8, value: 0, want: []byte{0x00}},
		{name: "int8 negative", wt: WireTypeInt8, value: -5, want: []byte{0xFB}},
		{name: "uint16 max", wt: WireTypeUint16, value: 65535, want: []byte{0xFF, 0xFF}},
		{name: "int16 negative", wt: WireTypeInt16, value: -30000, want: []byte{0xD0, 0x8A}},
		{name: "uint32 max", wt: WireTypeUint32, value: uint32(4294967295), want: []byte{0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "int32 negative", wt: WireTypeInt32, value: -120, want: []byte{0x88, 0xFF, 0xFF, 0xFF}},
		{name: "uint64 timestamp", wt: WireTypeUint64, value: uint64(1700000000123), want: []byte{0x7B, 0x68, 0xE5, 0xCF, 0x8B, 0x01, 0x00, 0x00}},
		{name: "int64 minus one", wt: WireTypeInt64, value: int64(-1), want: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{name: "float32", wt: WireTypeFloat32, value: 25.5, want: []byte{0x00, 0x00, 0xCC, 0x41}},
		{name: "float64", wt: WireTypeFloat64, value: 1013.25, want: []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0xAA, 0x8F, 0x40}},
		{name: "float32 from int", wt: WireTypeFloat32, value: 1, want: []byte{0x00, 0x00, 0x80, 0x3F}},
		{name: "char from string", wt: WireTypeChar, value: "Q", want: []byte{0x51}},
		{name: "char from longer string", wt: WireTypeChar, value: "hello", want: []byte{'h'}},
		{name: "char empty defaults to A", wt: WireTypeChar, value: "", want: []byte{'A'}},
		{name: "uint8 from integral float", wt: WireTypeUint8, value: 7.0, want: []byte{0x07}},
		{name: "int16 from integral float", wt: WireTypeInt16, value: -2.0, want: []byte{0xFE, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := []Field{{Name: "v", Type: tt.wt}}
			got, err := PackPayload(fields, map[string]any{"v": tt.value})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackPayloadFieldOrder(t *testing.T) {
	fields := []Field{
		{Name: "a", Type: WireTypeUint8},
		{Name: "b", Type: WireTypeUint16},
		{Name: "c", Type: WireTypeInt8},
	}
	values := map[string]any{
		"a": 0x01,
		"b": 0x0203,
		"c": -1,
	}

	got, err := PackPayload(fields, values)
	require.NoError(t, err)

	// Declared order, not map order; uint16 little-endian.
	assert.Equal(t, []byte{0x01, 0x03, 0x02, 0xFF}, got)
}

func TestPackPayloadMissingField(t *testing.T) {
	fields := []Field{
		{Name: "present", Type: WireTypeUint8},
		{Name: "absent", Type: WireTypeUint8},
	}

	_, err := PackPayload(fields, map[string]any{"present": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingFieldValue)
	assert.Contains(t, err.Error(), "absent")
}

func TestPackPayloadOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		wt    WireType
		value any
	}{
		{name: "uint8 too large", wt: WireTypeUint8, value: 300},
		{name: "uint8 negative", wt: WireTypeUint8, value: -1},
		{name: "int8 too small", wt: WireTypeInt8, value: -200},
		{name: "int8 too large", wt: WireTypeInt8, value: 128},
		{name: "uint16 too large", wt: WireTypeUint16, value: 65536},
		{name: "int16 too large", wt: WireTypeInt16, value: 32768},
		{name: "uint32 negative", wt: WireTypeUint32, value: -7},
		{name: "int32 too large", wt: WireTypeInt32, value: int64(1) << 40},
		{name: "uint64 negative float", wt: WireTypeUint64, value: -1.0},
		{name: "non-integral float for int field", wt: WireTypeInt16, value: 1.5},
		{name: "nan for int field", wt: WireTypeUint32, value: math.NaN()},
		{name: "float32 overflow", wt: WireTypeFloat32, value: 1e40},
		{name: "string for numeric field", wt: WireTypeUint8, value: "12"},
		{name: "bool for numeric field", wt: WireTypeInt32, value: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := []Field{{Name: "v", Type: tt.wt}}
			_, err := PackPayload(fields, map[string]any{"v": tt.value})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValueOutOfRange)
			assert.Contains(t, err.Error(), "v")
		})
	}
}

func TestPackPayloadUnsupportedType(t *testing.T) {
	fields := []Field{{Name: "v", Type: WireTypeInvalid}}
	_, err := PackPayload(fields, map[string]any{"v": 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFieldType)
}

func TestPackPayloadRoundTrip(t *testing.T) {
	fields := []Field{
		{Name: "ts", Type: WireTypeUint64},
		{Name: "temp", Type: WireTypeFloat32},
		{Name: "pressure", Type: WireTypeFloat64},
		{Name: "lat", Type: WireTypeInt32},
		{Name: "raw", Type: WireTypeInt16},
		{Name: "status", Type: WireTypeUint8},
		{Name: "trim", Type: WireTypeInt8},
		{Name: "unit", Type: WireTypeChar},
	}
	values := map[string]any{
		"ts":       uint64(1700000000123),
		"temp":     float32(25.5),
		"pressure": 1013.25,
		"lat":      int32(376500000),
		"raw":      int16(-30000),
		"status":   uint8(7),
		"trim":     int8(-5),
		"unit":     "C",
	}

	buf, err := PackPayload(fields, values)
	require.NoError(t, err)
	require.Len(t, buf, 29)

	// Unpack at the same offsets with the same byte order and compare.
	assert.Equal(t, uint64(1700000000123), binary.LittleEndian.Uint64(buf[0:8]))
	assert.Equal(t, float32(25.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[8:12])))
	assert.Equal(t, 1013.25, math.Float64frombits(binary.LittleEndian.Uint64(buf[12:20])))
	assert.Equal(t, int32(376500000), int32(binary.LittleEndian.Uint32(buf[20:24])))
	assert.Equal(t, int16(-30000), int16(binary.LittleEndian.Uint16(buf[24:26])))
	assert.Equal(t, uint8(7), buf[26])
	assert.Equal(t, int8(-5), int8(buf[27]))
	assert.Equal(t, byte('C'), buf[28])
}
