package mavlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sensorDataDef = &Message{
	ID:   50000,
	Name: "SENSOR_DATA",
	Fields: []Field{
		{Name: "timestamp", Type: WireTypeUint64},
		{Name: "temperature", Type: WireTypeFloat32},
		{Name: "pressure", Type: WireTypeFloat32},
		{Name: "latitude", Type: WireTypeInt32},
		{Name: "raw_adc", Type: WireTypeInt16},
		{Name: "status", Type: WireTypeUint8},
		{Name: "trim", Type: WireTypeInt8},
		{Name: "unit", Type: WireTypeChar},
	},
}

var sensorDataValues = map[string]any{
	"timestamp":   uint64(1700000000123),
	"temperature": 25.5,
	"pressure":    1013.25,
	"latitude":    -120,
	"raw_adc":     -30000,
	"status":      7,
	"trim":        -5,
	"unit":        "Q",
}

func TestEncodeHeartbeat(t *testing.T) {
	heartbeat := &Message{ID: 0, Name: "HEARTBEAT"}

	tests := []struct {
		name string
		mode CRCMode
		want string
	}{
		{name: "seeded", mode: ModeSeeded, want: "fd0000000064be00000000d433"},
		{name: "plain", mode: ModePlain, want: "fd0000000064be000000001659"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewEncoder(Config{SystemID: 100, ComponentID: 190})
			f, err := enc.Encode(heartbeat, nil, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Hex())
			assert.Equal(t, 13, f.Len())
		})
	}
}

func TestEncodeSingleFieldVendorMessage(t *testing.T) {
	def := &Message{
		ID:     50001,
		Name:   "COUNTER",
		Fields: []Field{{Name: "count", Type: WireTypeUint8}},
	}
	values := map[string]any{"count": 42}

	t.Run("seeded", func(t *testing.T) {
		enc := NewEncoder(Config{SystemID: 100, ComponentID: 190})
		f, err := enc.Encode(def, values, ModeSeeded)
		require.NoError(t, err)
		assert.Equal(t, "fd0100000064be51c300002a4bdc", f.Hex())
	})

	t.Run("plain", func(t *testing.T) {
		enc := NewEncoder(Config{SystemID: 100, ComponentID: 190})
		f, err := enc.Encode(def, values, ModePlain)
		require.NoError(t, err)
		assert.Equal(t, "fd0100000064be51c300002aa617", f.Hex())
	})
}

func TestEncodeSensorDataFrame(t *testing.T) {
	enc := NewEncoder(Config{SystemID: 100, ComponentID: 190})

	// Burn three sequence numbers so the golden frame carries seq 3.
	for i := 0; i < 3; i++ {
		_, err := enc.Encode(sensorDataDef, sensorDataValues, ModeSeeded)
		require.NoError(t, err)
	}

	f, err := enc.Encode(sensorDataDef, sensorDataValues, ModeSeeded)
	require.NoError(t, err)

	assert.Equal(t, uint8(3), f.Sequence)
	assert.Equal(t, 25, sensorDataDef.PayloadSize())
	assert.Equal(t,
		"fd1900000364be50c300007b68e5cf8b0100000000cc4100507d4488ffffffd08a07fb51a446",
		f.Hex())
}

func TestEncodeFrameLengthMatchesDeclaredWidths(t *testing.T) {
	enc := NewEncoder(Config{SystemID: 1, ComponentID: 1})

	f, err := enc.Encode(sensorDataDef, sensorDataValues, ModeSeeded)
	require.NoError(t, err)
	assert.Equal(t, 13+sensorDataDef.PayloadSize(), f.Len())
	assert.Equal(t, StartByte, f.Bytes()[0])
}

func TestEncodeSeededAndPlainDiffer(t *testing.T) {
	values := map[string]any{"count": 1}
	def := &Message{
		ID:     50001,
		Name:   "COUNTER",
		Fields: []Field{{Name: "count", Type: WireTypeUint8}},
	}

	seeded, err := NewEncoder(Config{}).Encode(def, values, ModeSeeded)
	require.NoError(t, err)
	plain, err := NewEncoder(Config{}).Encode(def, values, ModePlain)
	require.NoError(t, err)

	assert.NotEqual(t, seeded.Checksum, plain.Checksum)
	// Everything before the checksum is identical.
	assert.Equal(t, seeded.Bytes()[:seeded.Len()-2], plain.Bytes()[:plain.Len()-2])
}

func TestEncodeSequenceAdvancesPerFrame(t *testing.T) {
	enc := NewEncoder(Config{SystemID: 5, ComponentID: 5})
	def := &Message{ID: 0, Name: "HEARTBEAT"}

	for i := 0; i < 300; i++ {
		f, err := enc.Encode(def, nil, ModeSeeded)
		require.NoError(t, err)
		assert.Equal(t, uint8(i%256), f.Sequence)
	}
}

func TestEncodeFailureKeepsSequence(t *testing.T) {
	enc := NewEncoder(Config{SystemID: 1, ComponentID: 1})
	def := &Message{
		ID:     50001,
		Name:   "COUNTER",
		Fields: []Field{{Name: "count", Type: WireTypeUint8}},
	}

	// Packing failures happen before the counter moves.
	_, err := enc.Encode(def, map[string]any{}, ModeSeeded)
	require.ErrorIs(t, err, ErrMissingFieldValue)
	_, err = enc.Encode(def, map[string]any{"count": 300}, ModeSeeded)
	require.ErrorIs(t, err, ErrValueOutOfRange)

	f, err := enc.Encode(def, map[string]any{"count": 1}, ModeSeeded)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), f.Sequence)
}

func TestParseCRCMode(t *testing.T) {
	tests := []struct {
		in      string
		want    CRCMode
		wantErr bool
	}{
		{in: "seeded", want: ModeSeeded},
		{in: "plain", want: ModePlain},
		{in: "", want: ModeSeeded},
		{in: "crc64", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("in="+tt.in, func(t *testing.T) {
			got, err := ParseCRCMode(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCRCMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCRCModeString(t *testing.T) {
	assert.Equal(t, "seeded", ModeSeeded.String())
	assert.Equal(t, "plain", ModePlain.String())
	assert.Equal(t, "unknown", CRCMode(9).String())
}
