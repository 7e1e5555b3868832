// Package synth produces plausible field values for test traffic. Values
// are picked by field-name heuristics matching how telemetry fields are
// usually named (timestamps, temperatures, GPS coordinates, counters),
// with full-range fallbacks per wire type. The output map always covers
// every declared field, so a synthesized frame never fails on a missing
// value.
package synth

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/eytandecker/mavforge/internal/mavlink"
)

// Generator synthesizes value maps for message definitions. Construct with
// New; the zero value has no random source.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// New returns a Generator drawing from rng. A nil rng gets a time-seeded
// source; tests pass a fixed seed for reproducible values.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, now: time.Now}
}

// Values generates one value for every field of def.
func (g *Generator) Values(def *mavlink.Message) map[string]any {
	vals := make(map[string]any, len(def.Fields))
	for _, f := range def.Fields {
		vals[f.Name] = g.value(f)
	}
	return vals
}

// value picks a field value. Name heuristics run first; a field whose name
// matches a rule but whose type the rule has no case for falls through to
// the per-type default.
func (g *Generator) value(f mavlink.Field) any {
	if v, ok := g.heuristic(strings.ToLower(f.Name), f.Type); ok {
		return v
	}
	return g.fallback(f.Type)
}

func (g *Generator) heuristic(name string, wt mavlink.WireType) (any, bool) {
	switch {
	case strings.Contains(name, "timestamp") || strings.Contains(name, "time"):
		switch wt {
		case mavlink.WireTypeUint64:
			return uint64(g.now().UnixMilli()), true
		case mavlink.WireTypeUint32:
			return uint32(g.now().Unix()), true
		}
	case strings.Contains(name, "temperature"):
		if wt.IsFloat() {
			return round(g.uniform(20, 30), 2), true
		}
		return g.intBetween(200, 300), true
	case strings.Contains(name, "pressure"):
		if wt.IsFloat() {
			return round(g.uniform(1000, 1020), 2), true
		}
		return g.intBetween(100000, 102000), true
	case strings.Contains(name, "humidity"):
		if wt.IsFloat() {
			return round(g.uniform(40, 60), 2), true
		}
		return g.intBetween(40, 60), true
	case strings.Contains(name, "lat"):
		if wt == mavlink.WireTypeInt32 {
			// Degrees times 1e7, somewhere around the bay area.
			return 376500000 + g.intBetween(-10000, 10000), true
		}
	case strings.Contains(name, "lon"):
		if wt == mavlink.WireTypeInt32 {
			return -1224300000 + g.intBetween(-10000, 10000), true
		}
	case strings.Contains(name, "alt"):
		if wt == mavlink.WireTypeInt32 {
			// Millimeters above mean sea level.
			return g.intBetween(0, 50000), true
		}
	case strings.Contains(name, "quality") || strings.Contains(name, "percent"):
		if wt == mavlink.WireTypeUint8 {
			return g.intBetween(0, 100), true
		}
		if wt.IsFloat() {
			return round(g.uniform(0, 100), 2), true
		}
	case strings.Contains(name, "status") || strings.Contains(name, "flag"):
		if wt == mavlink.WireTypeUint8 {
			return g.intBetween(0, 3), true
		}
	case strings.Contains(name, "id"):
		if wt == mavlink.WireTypeUint8 || wt == mavlink.WireTypeUint16 {
			return g.intBetween(1, 255), true
		}
	case strings.Contains(name, "count"):
		switch wt {
		case mavlink.WireTypeUint8:
			return g.intBetween(1, 20), true
		case mavlink.WireTypeUint16:
			return g.intBetween(1, 100), true
		}
	case strings.Contains(name, "voltage"):
		if wt.IsFloat() {
			return round(g.uniform(4.8, 5.2), 2), true
		}
	case strings.Contains(name, "current"):
		if wt.IsFloat() {
			return round(g.uniform(0.5, 2.0), 2), true
		}
	}
	return nil, false
}

// fallback covers fields no heuristic claimed: full width for the small
// integer types, a bounded range for the wide ones, milliseconds since the
// epoch for 64-bit integers.
func (g *Generator) fallback(wt mavlink.WireType) any {
	switch wt {
	case mavlink.WireTypeUint8:
		return g.intBetween(0, 255)
	case mavlink.WireTypeInt8:
		return g.intBetween(-128, 127)
	case mavlink.WireTypeUint16:
		return g.intBetween(0, 65535)
	case mavlink.WireTypeInt16:
		return g.intBetween(-32768, 32767)
	case mavlink.WireTypeUint32:
		return g.intBetween(0, 1000000)
	case mavlink.WireTypeInt32:
		return g.intBetween(-1000000, 1000000)
	case mavlink.WireTypeUint64:
		return uint64(g.now().UnixMilli())
	case mavlink.WireTypeInt64:
		return g.now().UnixMilli()
	case mavlink.WireTypeFloat32:
		return round(g.uniform(0, 100), 4)
	case mavlink.WireTypeFloat64:
		return round(g.uniform(0, 100), 8)
	case mavlink.WireTypeChar:
		return "A"
	default:
		return 0
	}
}

// intBetween returns a uniform integer in [lo, hi].
func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// uniform returns a uniform float in [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

// round truncates x to the given number of decimal places.
func round(x float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(x*p) / p
}
