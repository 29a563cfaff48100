package nrbf

import (
	"bytes"
	"errors"
	"math/big"
	"testing"

	"github.com/skdltmxn/nrbf-go/internal/wire"
)

func TestFixedPrimitiveRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		pt   PrimitiveType
		v    Primitive
	}{
		{"boolean true", PrimitiveBoolean, BooleanValue(true)},
		{"byte", PrimitiveByte, ByteValue(0xAB)},
		{"int16", PrimitiveInt16, Int16Value(-1234)},
		{"int32", PrimitiveInt32, Int32Value(-123456)},
		{"int64", PrimitiveInt64, Int64Value(-9000000000)},
		{"uint32", PrimitiveUInt32, UInt32Value(0xCAFEBABE)},
		{"single", PrimitiveSingle, SingleValue(1.5)},
		{"double", PrimitiveDouble, DoubleValue(2.25)},
		{"char ascii", PrimitiveChar, CharValue('A')},
		{"char multi-byte", PrimitiveChar, CharValue('中')},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := wire.NewStreamWriter(&buf)
			if err := writeFixedPrimitive(w, tt.v); err != nil {
				t.Fatalf("writeFixedPrimitive failed, reason: %v", err)
			}
			if err := w.Flush(); err != nil {
				t.Fatalf("Flush failed, reason: %v", err)
			}

			r := wire.NewStreamReader(bytes.NewReader(buf.Bytes()))
			got, err := readFixedPrimitive(r, tt.pt)
			if err != nil {
				t.Fatalf("readFixedPrimitive failed, reason: %v", err)
			}
			if got != tt.v {
				t.Errorf("got %#v, want %#v", got, tt.v)
			}
		})
	}
}

func TestDecimalFromStringRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"integer", "12345"},
		{"negative", "-42"},
		{"fraction", "3.14159"},
		{"trailing zero trimmed", "1.50"},
		{"zero", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DecimalFromString(tt.in)
			if err != nil {
				t.Fatalf("DecimalFromString(%q) failed, reason: %v", tt.in, err)
			}
			want := tt.in
			if want == "1.50" {
				want = "1.5"
			}
			if got := d.String(); got != want {
				t.Errorf("String() = %q, want %q", got, want)
			}
		})
	}
}

func TestDecimalFromStringInvalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1.2.3", "-", "1."} {
		if _, err := DecimalFromString(in); !errors.Is(err, ErrInvalidDecimal) {
			t.Errorf("DecimalFromString(%q) error = %v, want %v", in, err, ErrInvalidDecimal)
		}
	}
}

func TestDecimalSaturatesAtBound(t *testing.T) {
	huge := "999999999999999999999999999999999999999"
	d, err := DecimalFromString(huge)
	if err != nil {
		t.Fatalf("DecimalFromString failed, reason: %v", err)
	}
	want, _ := new(big.Int).SetString(decimalMaxDigitsText, 10)
	if d.Unscaled.Cmp(want) != 0 {
		t.Errorf("Unscaled = %s, want %s", d.Unscaled, want)
	}
	if d.Scale != 0 {
		t.Errorf("Scale = %d, want 0", d.Scale)
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	d, err := DateTimeFromISO8601("2024-03-15T12:30:00Z", DateTimeUTC)
	if err != nil {
		t.Fatalf("DateTimeFromISO8601 failed, reason: %v", err)
	}

	var buf bytes.Buffer
	w := wire.NewStreamWriter(&buf)
	if err := writeDateTime(w, d); err != nil {
		t.Fatalf("writeDateTime failed, reason: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed, reason: %v", err)
	}

	r := wire.NewStreamReader(bytes.NewReader(buf.Bytes()))
	got, err := readDateTime(r)
	if err != nil {
		t.Fatalf("readDateTime failed, reason: %v", err)
	}
	if got.Ticks != d.Ticks || got.Kind != d.Kind {
		t.Errorf("got %+v, want %+v", got, d)
	}
	if !got.Time().Equal(d.Time()) {
		t.Errorf("Time() = %v, want %v", got.Time(), d.Time())
	}
}

func TestLibrarySpecRoundTrip(t *testing.T) {
	tests := []string{
		"MyAssembly",
		"MyAssembly, Version=1.0.0.0, Culture=neutral, PublicKeyToken=null",
		"MyAssembly, Version=2.5.1.0, Culture=en-US, PublicKeyToken=0123456789abcdef, Retargetable=Yes",
	}

	for _, spec := range tests {
		t.Run(spec, func(t *testing.T) {
			lib, err := ParseLibrarySpec(spec)
			if err != nil {
				t.Fatalf("ParseLibrarySpec(%q) failed, reason: %v", spec, err)
			}
			if got := lib.Spec(); got != spec {
				t.Errorf("Spec() = %q, want %q", got, spec)
			}
		})
	}
}

func TestClassObjectEqual(t *testing.T) {
	members := []Member{{Index: 0, Name: "x", BinaryType: BinaryTypePrimitive, ExtraInfo: PrimitiveInt32}}
	a := &ClassObject{Name: "Widget", Library: systemLibrary, Members: members}
	b := &ClassObject{Name: "Widget", Library: systemLibrary, Members: members}
	c := &ClassObject{Name: "Widget", Library: systemLibrary, Members: []Member{
		{Index: 0, Name: "x", BinaryType: BinaryTypePrimitive, ExtraInfo: PrimitiveInt64},
	}}

	if !a.Equal(b) {
		t.Error("identical schemas compared unequal")
	}
	if a.Equal(c) {
		t.Error("differing extra-info compared equal")
	}
}

func TestClassRegistrySchemaConflict(t *testing.T) {
	reg := newClassRegistry()
	members := []Member{{Index: 0, Name: "x", BinaryType: BinaryTypePrimitive, ExtraInfo: PrimitiveInt32}}

	first := &ClassObject{Name: "Widget", Library: systemLibrary, Members: members}
	if _, err := reg.register(first); err != nil {
		t.Fatalf("first register failed, reason: %v", err)
	}

	conflicting := &ClassObject{Name: "Widget", Library: systemLibrary, Members: []Member{
		{Index: 0, Name: "x", BinaryType: BinaryTypePrimitive, ExtraInfo: PrimitiveInt64},
	}}
	if _, err := reg.register(conflicting); !errors.Is(err, ErrSchemaConflict) {
		t.Errorf("conflicting register error = %v, want %v", err, ErrSchemaConflict)
	}
}
