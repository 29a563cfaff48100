// Package nrbf implements a codec for the .NET Remoting Binary Format
// (NRBF), reading and writing object graphs exchanged between .NET
// processes as a stream of tagged records.
package nrbf

// RecordType identifies the kind of record a single discriminant byte
// introduces on the wire.
type RecordType byte

// Record type discriminants, per the NRBF wire format.
const (
	RecordSerializedStreamHeader         RecordType = 0
	RecordClassWithId                    RecordType = 1
	RecordSystemClassWithMembers         RecordType = 2
	RecordClassWithMembers                RecordType = 3
	RecordSystemClassWithMembersAndTypes RecordType = 4
	RecordClassWithMembersAndTypes        RecordType = 5
	RecordBinaryObjectString             RecordType = 6
	RecordBinaryArray                    RecordType = 7
	RecordMemberPrimitiveTyped           RecordType = 8
	RecordMemberReference                RecordType = 9
	RecordObjectNull                     RecordType = 10
	RecordMessageEnd                     RecordType = 11
	RecordBinaryLibrary                  RecordType = 12
	RecordObjectNullMultiple256          RecordType = 13
	RecordObjectNullMultiple             RecordType = 14
	RecordArraySinglePrimitive           RecordType = 15
	RecordArraySingleObject              RecordType = 16
	RecordArraySingleString              RecordType = 17
	RecordMethodCall                     RecordType = 18
	RecordMethodReturn                   RecordType = 22
)

func (rt RecordType) String() string {
	switch rt {
	case RecordSerializedStreamHeader:
		return "SerializedStreamHeader"
	case RecordClassWithId:
		return "ClassWithId"
	case RecordSystemClassWithMembers:
		return "SystemClassWithMembers"
	case RecordClassWithMembers:
		return "ClassWithMembers"
	case RecordSystemClassWithMembersAndTypes:
		return "SystemClassWithMembersAndTypes"
	case RecordClassWithMembersAndTypes:
		return "ClassWithMembersAndTypes"
	case RecordBinaryObjectString:
		return "BinaryObjectString"
	case RecordBinaryArray:
		return "BinaryArray"
	case RecordMemberPrimitiveTyped:
		return "MemberPrimitiveTyped"
	case RecordMemberReference:
		return "MemberReference"
	case RecordObjectNull:
		return "ObjectNull"
	case RecordMessageEnd:
		return "MessageEnd"
	case RecordBinaryLibrary:
		return "BinaryLibrary"
	case RecordObjectNullMultiple256:
		return "ObjectNullMultiple256"
	case RecordObjectNullMultiple:
		return "ObjectNullMultiple"
	case RecordArraySinglePrimitive:
		return "ArraySinglePrimitive"
	case RecordArraySingleObject:
		return "ArraySingleObject"
	case RecordArraySingleString:
		return "ArraySingleString"
	case RecordMethodCall:
		return "MethodCall"
	case RecordMethodReturn:
		return "MethodReturn"
	default:
		return "Unknown"
	}
}

// isReservedOrUnimplemented reports whether rt is a recognized-but-not-parsed
// record (MethodCall/MethodReturn) or a reserved discriminant (19-21).
func (rt RecordType) isReservedOrUnimplemented() bool {
	switch rt {
	case RecordMethodCall, RecordMethodReturn:
		return true
	}
	return rt >= 19 && rt <= 21
}

// BinaryType determines the wire shape of a class member value and the
// extra-info that must accompany its schema entry.
type BinaryType byte

const (
	BinaryTypePrimitive      BinaryType = 0
	BinaryTypeString         BinaryType = 1
	BinaryTypeObject         BinaryType = 2
	BinaryTypeSystemClass    BinaryType = 3
	BinaryTypeClass          BinaryType = 4
	BinaryTypeObjectArray    BinaryType = 5
	BinaryTypeStringArray    BinaryType = 6
	BinaryTypePrimitiveArray BinaryType = 7
)

func (bt BinaryType) String() string {
	switch bt {
	case BinaryTypePrimitive:
		return "Primitive"
	case BinaryTypeString:
		return "String"
	case BinaryTypeObject:
		return "Object"
	case BinaryTypeSystemClass:
		return "SystemClass"
	case BinaryTypeClass:
		return "Class"
	case BinaryTypeObjectArray:
		return "ObjectArray"
	case BinaryTypeStringArray:
		return "StringArray"
	case BinaryTypePrimitiveArray:
		return "PrimitiveArray"
	default:
		return "Unknown"
	}
}

// hasExtraInfo reports whether this BinaryType carries extra-info on the wire.
func (bt BinaryType) hasExtraInfo() bool {
	switch bt {
	case BinaryTypePrimitive, BinaryTypePrimitiveArray, BinaryTypeSystemClass, BinaryTypeClass:
		return true
	default:
		return false
	}
}

// BinaryArrayType identifies the shape of a BinaryArray record.
type BinaryArrayType byte

const (
	BinaryArraySingle            BinaryArrayType = 0
	BinaryArrayJagged            BinaryArrayType = 1
	BinaryArrayRectangular       BinaryArrayType = 2
	BinaryArraySingleOffset      BinaryArrayType = 3
	BinaryArrayJaggedOffset      BinaryArrayType = 4
	BinaryArrayRectangularOffset BinaryArrayType = 5
)

func (at BinaryArrayType) String() string {
	switch at {
	case BinaryArraySingle:
		return "Single"
	case BinaryArrayJagged:
		return "Jagged"
	case BinaryArrayRectangular:
		return "Rectangular"
	case BinaryArraySingleOffset:
		return "SingleOffset"
	case BinaryArrayJaggedOffset:
		return "JaggedOffset"
	case BinaryArrayRectangularOffset:
		return "RectangularOffset"
	default:
		return "Unknown"
	}
}

// hasOffsets reports whether this array type carries a per-rank lower-bound
// vector on the wire.
func (at BinaryArrayType) hasOffsets() bool {
	switch at {
	case BinaryArraySingleOffset, BinaryArrayJaggedOffset, BinaryArrayRectangularOffset:
		return true
	default:
		return false
	}
}

// Header is the SerializedStreamHeader record that must begin every message.
type Header struct {
	RootId   int32
	HeaderId int32
	Major    int32
	Minor    int32
}
