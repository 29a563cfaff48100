package nrbf

import (
	"bytes"
	"fmt"

	"github.com/skdltmxn/nrbf-go/internal/wire"
)

// encodePrimitive renders v through the same codec path used for
// MemberPrimitiveTyped. It cannot fail for any of the concrete Primitive
// types defined in this package.
func encodePrimitive(v Primitive) []byte {
	var buf bytes.Buffer
	w := wire.NewStreamWriter(&buf)
	if err := writeFixedPrimitive(w, v); err != nil {
		panic(fmt.Sprintf("nrbf: encoding %T: %v", v, err))
	}
	if err := w.Flush(); err != nil {
		panic(fmt.Sprintf("nrbf: flushing %T: %v", v, err))
	}
	return buf.Bytes()
}

func decodePrimitive(pt PrimitiveType, b []byte) (Primitive, error) {
	return readFixedPrimitive(wire.NewStreamReader(bytes.NewReader(b)), pt)
}

// Bytes returns v's wire encoding, the same bytes a MemberPrimitiveTyped
// record carries for this value.
func (v BooleanValue) Bytes() []byte   { return encodePrimitive(v) }
func (v ByteValue) Bytes() []byte      { return encodePrimitive(v) }
func (v SByteValue) Bytes() []byte     { return encodePrimitive(v) }
func (v CharValue) Bytes() []byte      { return encodePrimitive(v) }
func (v DoubleValue) Bytes() []byte    { return encodePrimitive(v) }
func (v SingleValue) Bytes() []byte    { return encodePrimitive(v) }
func (v Int16Value) Bytes() []byte     { return encodePrimitive(v) }
func (v Int32Value) Bytes() []byte     { return encodePrimitive(v) }
func (v Int64Value) Bytes() []byte     { return encodePrimitive(v) }
func (v UInt16Value) Bytes() []byte    { return encodePrimitive(v) }
func (v UInt32Value) Bytes() []byte    { return encodePrimitive(v) }
func (v UInt64Value) Bytes() []byte    { return encodePrimitive(v) }
func (v TimeSpanValue) Bytes() []byte  { return encodePrimitive(v) }
func (v NullValue) Bytes() []byte      { return nil }
func (v *DecimalValue) Bytes() []byte  { return encodePrimitive(v) }
func (v *DateTimeValue) Bytes() []byte { return encodePrimitive(v) }

// BooleanFromBytes decodes a Boolean primitive from its wire encoding.
func BooleanFromBytes(b []byte) (BooleanValue, error) {
	v, err := decodePrimitive(PrimitiveBoolean, b)
	if err != nil {
		return false, err
	}
	return v.(BooleanValue), nil
}

// ByteFromBytes decodes a Byte primitive from its wire encoding.
func ByteFromBytes(b []byte) (ByteValue, error) {
	v, err := decodePrimitive(PrimitiveByte, b)
	if err != nil {
		return 0, err
	}
	return v.(ByteValue), nil
}

// SByteFromBytes decodes an SByte primitive from its wire encoding.
func SByteFromBytes(b []byte) (SByteValue, error) {
	v, err := decodePrimitive(PrimitiveSByte, b)
	if err != nil {
		return 0, err
	}
	return v.(SByteValue), nil
}

// CharFromBytes decodes a Char primitive (1-4 UTF-8 bytes) from its wire
// encoding.
func CharFromBytes(b []byte) (CharValue, error) {
	v, err := decodePrimitive(PrimitiveChar, b)
	if err != nil {
		return 0, err
	}
	return v.(CharValue), nil
}

// DoubleFromBytes decodes a Double primitive from its wire encoding.
func DoubleFromBytes(b []byte) (DoubleValue, error) {
	v, err := decodePrimitive(PrimitiveDouble, b)
	if err != nil {
		return 0, err
	}
	return v.(DoubleValue), nil
}

// SingleFromBytes decodes a Single primitive from its wire encoding.
func SingleFromBytes(b []byte) (SingleValue, error) {
	v, err := decodePrimitive(PrimitiveSingle, b)
	if err != nil {
		return 0, err
	}
	return v.(SingleValue), nil
}

// Int16FromBytes decodes an Int16 primitive from its wire encoding.
func Int16FromBytes(b []byte) (Int16Value, error) {
	v, err := decodePrimitive(PrimitiveInt16, b)
	if err != nil {
		return 0, err
	}
	return v.(Int16Value), nil
}

// Int32FromBytes decodes an Int32 primitive from its wire encoding.
func Int32FromBytes(b []byte) (Int32Value, error) {
	v, err := decodePrimitive(PrimitiveInt32, b)
	if err != nil {
		return 0, err
	}
	return v.(Int32Value), nil
}

// Int64FromBytes decodes an Int64 primitive from its wire encoding.
func Int64FromBytes(b []byte) (Int64Value, error) {
	v, err := decodePrimitive(PrimitiveInt64, b)
	if err != nil {
		return 0, err
	}
	return v.(Int64Value), nil
}

// UInt16FromBytes decodes a UInt16 primitive from its wire encoding.
func UInt16FromBytes(b []byte) (UInt16Value, error) {
	v, err := decodePrimitive(PrimitiveUInt16, b)
	if err != nil {
		return 0, err
	}
	return v.(UInt16Value), nil
}

// UInt32FromBytes decodes a UInt32 primitive from its wire encoding.
func UInt32FromBytes(b []byte) (UInt32Value, error) {
	v, err := decodePrimitive(PrimitiveUInt32, b)
	if err != nil {
		return 0, err
	}
	return v.(UInt32Value), nil
}

// UInt64FromBytes decodes a UInt64 primitive from its wire encoding.
func UInt64FromBytes(b []byte) (UInt64Value, error) {
	v, err := decodePrimitive(PrimitiveUInt64, b)
	if err != nil {
		return 0, err
	}
	return v.(UInt64Value), nil
}

// TimeSpanFromBytes decodes a TimeSpan primitive from its wire encoding.
func TimeSpanFromBytes(b []byte) (TimeSpanValue, error) {
	v, err := decodePrimitive(PrimitiveTimeSpan, b)
	if err != nil {
		return 0, err
	}
	return v.(TimeSpanValue), nil
}

// NullFromBytes decodes a Null primitive; Null carries no data, so any input
// decodes to the same zero value.
func NullFromBytes([]byte) (NullValue, error) {
	return NullValue{}, nil
}

// DecimalFromBytes decodes a Decimal primitive from its wire encoding (a
// length-prefixed textual value, per DecimalFromString's grammar).
func DecimalFromBytes(b []byte) (*DecimalValue, error) {
	v, err := decodePrimitive(PrimitiveDecimal, b)
	if err != nil {
		return nil, err
	}
	return v.(*DecimalValue), nil
}

// DateTimeFromBytes decodes a DateTime primitive from its wire encoding (8
// bytes: 62-bit ticks plus a 2-bit Kind).
func DateTimeFromBytes(b []byte) (*DateTimeValue, error) {
	v, err := decodePrimitive(PrimitiveDateTime, b)
	if err != nil {
		return nil, err
	}
	return v.(*DateTimeValue), nil
}
