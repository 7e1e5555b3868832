package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eytandecker/mavforge/internal/dialect"
)

const testDialectXML = `<?xml version="1.0"?>
<mavlink>
  <version>3</version>
  <messages>
    <message id="0" name="HEARTBEAT"></message>
    <message id="50001" name="COUNTER">
      <field type="uint8_t" name="tick_count">Counter value</field>
    </message>
  </messages>
</mavlink>`

func writeTestDialect(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.xml")
	require.NoError(t, os.WriteFile(path, []byte(testDialectXML), 0o644))
	return path
}

// execute runs the CLI against a fresh command tree and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestGenHeartbeatGolden(t *testing.T) {
	path := writeTestDialect(t)
	out, err := execute(t, "gen", "--dialect", path, "--name", "HEARTBEAT")
	require.NoError(t, err)

	assert.Contains(t, out, "Generating 1 frame(s) for: HEARTBEAT (ID: 0)")
	assert.Contains(t, out, "STX:     fd")
	assert.Contains(t, out, "Raw hex: fd0000000064be00000000d433")
	assert.Contains(t, out, "C array: {0xfd, 0x00, 0x00, 0x00, 0x00, 0x64, 0xbe, 0x00, 0x00, 0x00, 0x00, 0xd4, 0x33}")
}

func TestGenPositionalDialect(t *testing.T) {
	path := writeTestDialect(t)
	out, err := execute(t, "gen", path, "--name", "HEARTBEAT")
	require.NoError(t, err)
	assert.Contains(t, out, "Raw hex: fd0000000064be00000000d433")

	// The positional path wins over --dialect.
	out, err = execute(t, "gen", path, "--dialect", "absent.xml", "--name", "HEARTBEAT")
	require.NoError(t, err)
	assert.Contains(t, out, "Raw hex: fd0000000064be00000000d433")
}

func TestGenPlainMode(t *testing.T) {
	path := writeTestDialect(t)
	out, err := execute(t, "gen", "--dialect", path, "--name", "HEARTBEAT", "--mode", "plain")
	require.NoError(t, err)

	assert.Contains(t, out, "Raw hex: fd0000000064be000000001659")
}

func TestGenExplicitValue(t *testing.T) {
	path := writeTestDialect(t)
	out, err := execute(t, "gen", "--dialect", path, "--id", "50001", "--value", "tick_count=42")
	require.NoError(t, err)

	assert.Contains(t, out, "tick_count")
	assert.Contains(t, out, "Raw hex: fd0100000064be51c300002a4bdc")
	assert.Contains(t, out, "CRC:     4b dc")
}

func TestGenCountAdvancesSequence(t *testing.T) {
	path := writeTestDialect(t)
	out, err := execute(t, "gen", "--dialect", path, "--name", "HEARTBEAT", "--count", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Frame 1:")
	assert.Contains(t, out, "Frame 3:")
	assert.Contains(t, out, "fd0000000064be", "first frame carries sequence 0")
	assert.Contains(t, out, "fd0000000264be", "third frame carries sequence 2")
}

func TestGenUnknownMessage(t *testing.T) {
	path := writeTestDialect(t)
	_, err := execute(t, "gen", "--dialect", path, "--name", "NO_SUCH")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown message")
}

func TestGenBadValueFlag(t *testing.T) {
	path := writeTestDialect(t)
	_, err := execute(t, "gen", "--dialect", path, "--name", "COUNTER", "--value", "noequals")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad --value")
}

func TestGenMissingDialectFile(t *testing.T) {
	_, err := execute(t, "gen", "--dialect", filepath.Join(t.TempDir(), "absent.xml"))
	require.Error(t, err)
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{in: "42", want: int64(42)},
		{in: "-5", want: int64(-5)},
		{in: "18446744073709551615", want: uint64(18446744073709551615)},
		{in: "25.5", want: 25.5},
		{in: "Q", want: "Q"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseScalar(tt.in))
		})
	}
}

func TestParseValueFlags(t *testing.T) {
	values, err := parseValueFlags([]string{"temperature=25.5", "sensor_id=1", "unit=C"})
	require.NoError(t, err)
	assert.Equal(t, 25.5, values["temperature"])
	assert.Equal(t, int64(1), values["sensor_id"])
	assert.Equal(t, "C", values["unit"])

	values, err = parseValueFlags(nil)
	require.NoError(t, err)
	assert.Nil(t, values)

	_, err = parseValueFlags([]string{"=5"})
	require.Error(t, err)
}

func TestResolveMessage(t *testing.T) {
	d, err := dialect.Parse([]byte(testDialectXML))
	require.NoError(t, err)

	def, err := resolveMessage(d, -1, "")
	require.NoError(t, err)
	assert.Equal(t, "HEARTBEAT", def.Name)

	def, err = resolveMessage(d, 50001, "")
	require.NoError(t, err)
	assert.Equal(t, "COUNTER", def.Name)

	def, err = resolveMessage(d, -1, "COUNTER")
	require.NoError(t, err)
	assert.Equal(t, uint32(50001), def.ID)

	_, err = resolveMessage(d, 99, "")
	require.Error(t, err)
}
