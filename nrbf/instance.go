package nrbf

// Instance is the sum type of every node that can appear in a materialized
// NRBF object graph.
type Instance interface {
	isInstance()
}

// ClassInstance is an object of a schema-bearing class: its members hold
// either nested Instances, Primitive values, or nil for an embedded null.
type ClassInstance struct {
	ObjectId int32
	Class    *ClassObject
	Members  []any // Instance | Primitive | nil
}

func (*ClassInstance) isInstance() {}

// PrimitiveArrayInstance is a single-dimensional array of a fixed primitive
// kind, packed without per-element record tags.
type PrimitiveArrayInstance struct {
	ObjectId    int32
	ElementKind PrimitiveType
	Values      []Primitive
}

func (*PrimitiveArrayInstance) isInstance() {}

// ObjectArrayInstance is a single-dimensional array whose elements are
// arbitrary instances, references, boxed primitives, or nulls.
type ObjectArrayInstance struct {
	ObjectId int32
	Values   []any // Instance | Primitive | nil
}

func (*ObjectArrayInstance) isInstance() {}

// StringArrayInstance is a single-dimensional array of optional strings.
type StringArrayInstance struct {
	ObjectId int32
	Values   []any // *StringInstance | nil
}

func (*StringArrayInstance) isInstance() {}

// BinaryArrayInstance is a (possibly multi-dimensional, possibly jagged)
// array as described by a BinaryArray record.
type BinaryArrayInstance struct {
	ObjectId          int32
	ArrayType         BinaryArrayType
	Rank              int
	Lengths           []int32
	Offsets           []int32 // nil unless ArrayType.hasOffsets()
	ElementBinaryType BinaryType
	ElementExtraInfo  any
	Values            []any // Instance | Primitive | nil
}

func (*BinaryArrayInstance) isInstance() {}

// StringInstance is a single string object, identity-bearing like any other
// instance (strings may be referenced from multiple places in the graph).
type StringInstance struct {
	ObjectId int32
	Value    string
}

func (*StringInstance) isInstance() {}

// InstanceReference is a transient placeholder bound to a stream-local
// object id, produced while reading a MemberReference record. It is
// replaced in place by the fix-up pass at end-of-message; a fully resolved
// graph never contains one.
type InstanceReference struct {
	ObjectId int32
	table    *objectTable
}

func (*InstanceReference) isInstance() {}

// nullRun is the first-class, transient "N trailing nulls" value the
// dispatcher returns for ObjectNull/ObjectNullMultiple/ObjectNullMultiple256
// records. It is never stored in the ID table or exposed in a resolved
// graph; callers that read instance bodies or array element streams expand
// it into that many nil slots.
type nullRun struct {
	count int64
}

func (nullRun) isInstance() {}
