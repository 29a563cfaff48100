package nrbf

import (
	"fmt"
	"time"

	"github.com/relvacode/iso8601"

	"github.com/skdltmxn/nrbf-go/internal/wire"
)

// DateTimeKind identifies the timezone interpretation packed into the top
// two bits of an NRBF DateTime primitive.
type DateTimeKind uint8

const (
	DateTimeUnspecified DateTimeKind = 0
	DateTimeUTC         DateTimeKind = 1
	DateTimeLocal       DateTimeKind = 2
)

func (k DateTimeKind) String() string {
	switch k {
	case DateTimeUTC:
		return "UTC"
	case DateTimeLocal:
		return "Local"
	default:
		return "Unspecified"
	}
}

// ticksPerSecond is the .NET tick resolution: 100ns per tick.
const ticksPerSecond = 10_000_000

// ticksEpochOffset is the number of ticks between .NET's epoch (year 1,
// January 1st) and the Unix epoch.
const ticksEpochOffset = 621355968000000000

const dateTimeKindMask = uint64(0x3) << 62
const dateTimeTicksMask = uint64(1)<<62 - 1
const dateTimeSignBit = uint64(1) << 61

// DateTimeValue is the DateTime primitive: 62 bits of ticks (100ns units,
// possibly negative via two's-complement wrap) plus a 2-bit Kind.
type DateTimeValue struct {
	Ticks int64
	Kind  DateTimeKind
}

func (*DateTimeValue) PrimitiveType() PrimitiveType { return PrimitiveDateTime }

// Time converts the DateTime primitive to a standard library time.Time,
// interpreting Kind as UTC/Local where possible.
func (d *DateTimeValue) Time() time.Time {
	unixNanos := (d.Ticks - ticksEpochOffset) * 100
	t := time.Unix(0, unixNanos).UTC()
	if d.Kind == DateTimeLocal {
		return t.Local()
	}
	return t
}

// String renders the value as an ISO-8601 timestamp using the same
// formatting conventions relvacode/iso8601 parses, so the pair round-trips.
func (d *DateTimeValue) String() string {
	return d.Time().Format("2006-01-02T15:04:05.9999999Z07:00")
}

// DateTimeFromISO8601 parses s with relvacode/iso8601 and packs it into a
// DateTime primitive with the given Kind.
func DateTimeFromISO8601(s string, kind DateTimeKind) (*DateTimeValue, error) {
	t, err := iso8601.ParseString(s)
	if err != nil {
		return nil, fmt.Errorf("nrbf: invalid ISO-8601 timestamp: %w", err)
	}
	ticks := t.UnixNano()/100 + ticksEpochOffset
	return &DateTimeValue{Ticks: ticks, Kind: kind}, nil
}

func readDateTime(r *wire.StreamReader) (*DateTimeValue, error) {
	raw, err := r.ReadUint64()
	if err != nil {
		return nil, err
	}

	kind := DateTimeKind((raw & dateTimeKindMask) >> 62)
	field := raw & dateTimeTicksMask

	var ticks int64
	if field&dateTimeSignBit != 0 {
		ticks = int64(field) - (1 << 62)
	} else {
		ticks = int64(field)
	}

	return &DateTimeValue{Ticks: ticks, Kind: kind}, nil
}

func writeDateTime(w *wire.StreamWriter, d *DateTimeValue) error {
	field := uint64(d.Ticks) & dateTimeTicksMask
	raw := (uint64(d.Kind&0x3) << 62) | field
	return w.WriteUint64(raw)
}
