package nrbf

import "fmt"

// ClassTypeInfo is the extra-info carried by a BinaryTypeClass member: the
// referenced class's name plus the stream-local library id it belongs to.
type ClassTypeInfo struct {
	ClassName string
	LibraryId int32
}

// Member describes one ordered field of a ClassObject schema.
type Member struct {
	Index      int
	Name       string
	BinaryType BinaryType
	ExtraInfo  any // PrimitiveType | string (SystemClass name) | ClassTypeInfo | nil
}

// validateExtraInfo enforces the §3 invariant that BinaryType and ExtraInfo
// agree: Primitive/PrimitiveArray carry a PrimitiveType, SystemClass carries
// a string, Class carries a ClassTypeInfo, and all other BinaryTypes carry
// no extra-info at all.
func validateExtraInfo(bt BinaryType, extra any) error {
	switch bt {
	case BinaryTypePrimitive, BinaryTypePrimitiveArray:
		pt, ok := extra.(PrimitiveType)
		if !ok || !pt.Valid() {
			return fmt.Errorf("%w: %s requires a valid PrimitiveType, got %#v", ErrInvalidExtraInfo, bt, extra)
		}
		if pt == PrimitiveType(4) {
			return fmt.Errorf("%w: primitive code 4 is reserved", ErrInvalidExtraInfo)
		}
	case BinaryTypeSystemClass:
		if _, ok := extra.(string); !ok {
			return fmt.Errorf("%w: SystemClass requires a string class name, got %#v", ErrInvalidExtraInfo, extra)
		}
	case BinaryTypeClass:
		if _, ok := extra.(ClassTypeInfo); !ok {
			return fmt.Errorf("%w: Class requires a ClassTypeInfo, got %#v", ErrInvalidExtraInfo, extra)
		}
	case BinaryTypeString, BinaryTypeObject, BinaryTypeObjectArray, BinaryTypeStringArray:
		if extra != nil {
			return fmt.Errorf("%w: %s must not carry extra-info, got %#v", ErrInvalidExtraInfo, bt, extra)
		}
	default:
		return fmt.Errorf("%w: unknown BinaryType %d", ErrInvalidExtraInfo, bt)
	}
	return nil
}

// ClassObject is the schema for a class: its name, ordered member list,
// owning library, and whether it is a value type embedded inline in arrays.
type ClassObject struct {
	Name      string
	Members   []Member
	Partial   bool
	Library   Library
	ValueType bool
}

// key identifies a schema for registry lookups: (library, name).
type classKey struct {
	libraryKey string
	name       string
}

func (c *ClassObject) key() classKey {
	return classKey{libraryKey: c.Library.Key(), name: c.Name}
}

// Equal reports whether two schemas are byte-equal per §4.3: same library,
// name, ordered member names, and per-member (name, binary type, extra-info).
func (c *ClassObject) Equal(other *ClassObject) bool {
	if c.Library.Key() != other.Library.Key() || c.Name != other.Name {
		return false
	}
	if len(c.Members) != len(other.Members) {
		return false
	}
	for i := range c.Members {
		a, b := c.Members[i], other.Members[i]
		if a.Name != b.Name || a.BinaryType != b.BinaryType {
			return false
		}
		if !extraInfoEqual(a.ExtraInfo, b.ExtraInfo) {
			return false
		}
	}
	return true
}

func extraInfoEqual(a, b any) bool {
	switch av := a.(type) {
	case PrimitiveType:
		bv, ok := b.(PrimitiveType)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case ClassTypeInfo:
		bv, ok := b.(ClassTypeInfo)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

// MemberTypeInfo is the (binary_types, extra_info) pair read for a full
// class record, applied positionally to the preceding member-name list.
type MemberTypeInfo struct {
	BinaryTypes []BinaryType
	ExtraInfo   []any
}
