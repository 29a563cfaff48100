package nrbf

// PrimitiveType identifies one of NRBF's primitive value kinds. Code 4 is
// reserved; Null and String are consumed through dedicated records rather
// than an inline width-read (see §4.2 of the format notes).
type PrimitiveType byte

const (
	PrimitiveBoolean  PrimitiveType = 1
	PrimitiveByte     PrimitiveType = 2
	PrimitiveChar     PrimitiveType = 3
	PrimitiveDecimal  PrimitiveType = 5
	PrimitiveDouble   PrimitiveType = 6
	PrimitiveInt16    PrimitiveType = 7
	PrimitiveInt32    PrimitiveType = 8
	PrimitiveInt64    PrimitiveType = 9
	PrimitiveSByte    PrimitiveType = 10
	PrimitiveSingle   PrimitiveType = 11
	PrimitiveTimeSpan PrimitiveType = 12
	PrimitiveDateTime PrimitiveType = 13
	PrimitiveUInt16   PrimitiveType = 14
	PrimitiveUInt32   PrimitiveType = 15
	PrimitiveUInt64   PrimitiveType = 16
	PrimitiveNull     PrimitiveType = 17
	PrimitiveString   PrimitiveType = 18
)

func (pt PrimitiveType) String() string {
	switch pt {
	case PrimitiveBoolean:
		return "Boolean"
	case PrimitiveByte:
		return "Byte"
	case PrimitiveChar:
		return "Char"
	case PrimitiveDecimal:
		return "Decimal"
	case PrimitiveDouble:
		return "Double"
	case PrimitiveInt16:
		return "Int16"
	case PrimitiveInt32:
		return "Int32"
	case PrimitiveInt64:
		return "Int64"
	case PrimitiveSByte:
		return "SByte"
	case PrimitiveSingle:
		return "Single"
	case PrimitiveTimeSpan:
		return "TimeSpan"
	case PrimitiveDateTime:
		return "DateTime"
	case PrimitiveUInt16:
		return "UInt16"
	case PrimitiveUInt32:
		return "UInt32"
	case PrimitiveUInt64:
		return "UInt64"
	case PrimitiveNull:
		return "Null"
	case PrimitiveString:
		return "String"
	default:
		return "Unknown"
	}
}

// Valid reports whether pt is a recognized, non-reserved primitive code.
func (pt PrimitiveType) Valid() bool {
	switch pt {
	case PrimitiveBoolean, PrimitiveByte, PrimitiveChar, PrimitiveDecimal,
		PrimitiveDouble, PrimitiveInt16, PrimitiveInt32, PrimitiveInt64,
		PrimitiveSByte, PrimitiveSingle, PrimitiveTimeSpan, PrimitiveDateTime,
		PrimitiveUInt16, PrimitiveUInt32, PrimitiveUInt64, PrimitiveNull, PrimitiveString:
		return true
	default:
		return false
	}
}
