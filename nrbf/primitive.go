package nrbf

import (
	"fmt"

	"github.com/skdltmxn/nrbf-go/internal/varint"
	"github.com/skdltmxn/nrbf-go/internal/wire"
)

// Primitive is implemented by every fixed- or variable-width primitive value
// kind in the NRBF taxonomy.
type Primitive interface {
	PrimitiveType() PrimitiveType
}

// BooleanValue is the Boolean primitive: a single byte, zero is false,
// non-zero is true.
type BooleanValue bool

func (BooleanValue) PrimitiveType() PrimitiveType { return PrimitiveBoolean }

// ByteValue is the unsigned 8-bit Byte primitive.
type ByteValue uint8

func (ByteValue) PrimitiveType() PrimitiveType { return PrimitiveByte }

// SByteValue is the signed 8-bit SByte primitive.
type SByteValue int8

func (SByteValue) PrimitiveType() PrimitiveType { return PrimitiveSByte }

// CharValue is a single Unicode codepoint, read and written as 1-4 bytes
// of UTF-8.
type CharValue rune

func (CharValue) PrimitiveType() PrimitiveType { return PrimitiveChar }

// DoubleValue is an IEEE-754 little-endian 64-bit float.
type DoubleValue float64

func (DoubleValue) PrimitiveType() PrimitiveType { return PrimitiveDouble }

// SingleValue is an IEEE-754 little-endian 32-bit float.
type SingleValue float32

func (SingleValue) PrimitiveType() PrimitiveType { return PrimitiveSingle }

// Int16Value is a little-endian signed 16-bit integer.
type Int16Value int16

func (Int16Value) PrimitiveType() PrimitiveType { return PrimitiveInt16 }

// Int32Value is a little-endian signed 32-bit integer.
type Int32Value int32

func (Int32Value) PrimitiveType() PrimitiveType { return PrimitiveInt32 }

// Int64Value is a little-endian signed 64-bit integer.
type Int64Value int64

func (Int64Value) PrimitiveType() PrimitiveType { return PrimitiveInt64 }

// UInt16Value is a little-endian unsigned 16-bit integer.
type UInt16Value uint16

func (UInt16Value) PrimitiveType() PrimitiveType { return PrimitiveUInt16 }

// UInt32Value is a little-endian unsigned 32-bit integer.
type UInt32Value uint32

func (UInt32Value) PrimitiveType() PrimitiveType { return PrimitiveUInt32 }

// UInt64Value is a little-endian unsigned 64-bit integer.
type UInt64Value uint64

func (UInt64Value) PrimitiveType() PrimitiveType { return PrimitiveUInt64 }

// TimeSpanValue holds a signed tick count (100ns units).
type TimeSpanValue int64

func (TimeSpanValue) PrimitiveType() PrimitiveType { return PrimitiveTimeSpan }

// NullValue is the Null primitive kind; it carries no data.
type NullValue struct{}

func (NullValue) PrimitiveType() PrimitiveType { return PrimitiveNull }

// readFixedPrimitive reads one inline primitive of type pt: the fixed-width
// kinds, plus the variable-width Char (UTF-8) and Decimal (length-prefixed
// text) through their own helpers. String is not handled here; it arrives
// through BinaryObjectString records.
func readFixedPrimitive(r *wire.StreamReader, pt PrimitiveType) (Primitive, error) {
	switch pt {
	case PrimitiveBoolean:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return BooleanValue(b != 0), nil
	case PrimitiveByte:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return ByteValue(b), nil
	case PrimitiveSByte:
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		return SByteValue(int8(b)), nil
	case PrimitiveDouble:
		v, err := r.ReadFloat64()
		if err != nil {
			return nil, err
		}
		return DoubleValue(v), nil
	case PrimitiveSingle:
		v, err := r.ReadFloat32()
		if err != nil {
			return nil, err
		}
		return SingleValue(v), nil
	case PrimitiveInt16:
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return Int16Value(int16(v)), nil
	case PrimitiveInt32:
		v, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		return Int32Value(v), nil
	case PrimitiveInt64:
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		return Int64Value(v), nil
	case PrimitiveUInt16:
		v, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		return UInt16Value(v), nil
	case PrimitiveUInt32:
		v, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		return UInt32Value(v), nil
	case PrimitiveUInt64:
		v, err := r.ReadUint64()
		if err != nil {
			return nil, err
		}
		return UInt64Value(v), nil
	case PrimitiveTimeSpan:
		v, err := r.ReadInt64()
		if err != nil {
			return nil, err
		}
		return TimeSpanValue(v), nil
	case PrimitiveDateTime:
		return readDateTime(r)
	case PrimitiveChar:
		c, _, err := varint.ReadChar(r)
		if err != nil {
			return nil, err
		}
		return CharValue(c), nil
	case PrimitiveDecimal:
		return readDecimal(r)
	case PrimitiveNull:
		return NullValue{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrimitive, pt)
	}
}

// writeFixedPrimitive writes any Primitive value other than String, which is
// emitted through BinaryObjectString instead.
func writeFixedPrimitive(w *wire.StreamWriter, v Primitive) error {
	switch p := v.(type) {
	case BooleanValue:
		if p {
			return w.WriteByte(1)
		}
		return w.WriteByte(0)
	case ByteValue:
		return w.WriteByte(byte(p))
	case SByteValue:
		return w.WriteByte(byte(p))
	case DoubleValue:
		return w.WriteFloat64(float64(p))
	case SingleValue:
		return w.WriteFloat32(float32(p))
	case Int16Value:
		return w.WriteUint16(uint16(p))
	case Int32Value:
		return w.WriteInt32(int32(p))
	case Int64Value:
		return w.WriteInt64(int64(p))
	case UInt16Value:
		return w.WriteUint16(uint16(p))
	case UInt32Value:
		return w.WriteUint32(uint32(p))
	case UInt64Value:
		return w.WriteUint64(uint64(p))
	case TimeSpanValue:
		return w.WriteInt64(int64(p))
	case *DateTimeValue:
		return writeDateTime(w, p)
	case CharValue:
		_, err := varint.WriteChar(w, rune(p))
		return err
	case *DecimalValue:
		return writeDecimal(w, p)
	case NullValue:
		return nil
	default:
		return fmt.Errorf("%w: unsupported primitive %T", ErrInvalidPrimitive, v)
	}
}
