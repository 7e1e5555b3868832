package main

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/eytandecker/mavforge/internal/dialect"
	"github.com/eytandecker/mavforge/internal/mavlink"
	"github.com/eytandecker/mavforge/internal/synth"
)

// resolveMessage picks the message to work with: by name, by id, or the
// first one declared in the dialect.
func resolveMessage(d *dialect.Dialect, id int64, name string) (*mavlink.Message, error) {
	switch {
	case name != "":
		return d.MessageByName(name)
	case id >= 0:
		return d.MessageByID(uint32(id))
	default:
		return d.First(), nil
	}
}

// parseValueFlags turns repeated --value name=val flags into a value map.
// Numeric values become int64, uint64, or float64; everything else stays a
// string.
func parseValueFlags(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("bad --value %q, want name=value", pair)
		}
		values[name] = parseScalar(raw)
	}
	return values, nil
}

func parseScalar(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if n, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

func newGenerator(seed int64) *synth.Generator {
	if seed != 0 {
		return synth.New(rand.New(rand.NewSource(seed)))
	}
	return synth.New(nil)
}

func writeValueTable(w io.Writer, def *mavlink.Message, values map[string]any) {
	fmt.Fprintln(w, "  Field values:")
	for _, f := range def.Fields {
		fmt.Fprintf(w, "    %-20s = %-15v (%s)\n", f.Name, values[f.Name], f.Type)
	}
}

// writeFrameDump prints the frame section by section, eight bytes per row.
func writeFrameDump(w io.Writer, f *mavlink.Frame) {
	fmt.Fprintf(w, "  MAVLink 2 frame (%d bytes):\n", f.Len())
	fmt.Fprintf(w, "    STX:     %02x\n", mavlink.StartByte)
	writeHexRows(w, "Header:  ", f.Header())
	if len(f.Payload) > 0 {
		writeHexRows(w, "Payload: ", f.Payload)
	}
	fmt.Fprintf(w, "    CRC:     %02x %02x\n", byte(f.Checksum), byte(f.Checksum>>8))
}

func writeHexRows(w io.Writer, label string, b []byte) {
	indent := strings.Repeat(" ", len(label))
	for i := 0; i < len(b); i += 8 {
		end := i + 8
		if end > len(b) {
			end = len(b)
		}
		if i == 0 {
			fmt.Fprintf(w, "    %s% x\n", label, b[i:end])
		} else {
			fmt.Fprintf(w, "    %s% x\n", indent, b[i:end])
		}
	}
}

func cArray(b []byte) string {
	parts := make([]string, len(b))
	for i, x := range b {
		parts[i] = fmt.Sprintf("0x%02x", x)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
