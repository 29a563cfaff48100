package nrbf

import (
	"fmt"

	"github.com/skdltmxn/nrbf-go/internal/wire"
)

func (r *Reader) readArraySinglePrimitive(sr *wire.StreamReader, objTable *objectTable) (*PrimitiveArrayInstance, error) {
	rt := RecordArraySinglePrimitive
	id, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading object id", err)
	}
	length, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading array length", err)
	}
	ptByte, err := sr.ReadByte()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading element primitive type", err)
	}
	pt := PrimitiveType(ptByte)
	if !pt.Valid() {
		return nil, decodeErr(rt, sr.Offset(), "invalid element primitive type", ErrInvalidPrimitive)
	}

	n, err := clampLength(r, rt, sr, length)
	if err != nil {
		return nil, err
	}

	values := make([]Primitive, n)
	for i := range values {
		values[i], err = readFixedPrimitive(sr, pt)
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "reading array element", err)
		}
	}

	inst := &PrimitiveArrayInstance{ObjectId: id, ElementKind: pt, Values: values}
	if err := objTable.register(id, inst); err != nil {
		return nil, decodeErr(rt, sr.Offset(), "registering object id", err)
	}
	return inst, nil
}

func (r *Reader) readArraySingleString(sr *wire.StreamReader, objTable *objectTable) (*StringArrayInstance, error) {
	rt := RecordArraySingleString
	id, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading object id", err)
	}
	length, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading array length", err)
	}
	n, err := clampLength(r, rt, sr, length)
	if err != nil {
		return nil, err
	}

	inst := &StringArrayInstance{ObjectId: id, Values: make([]any, n)}
	if err := objTable.register(id, inst); err != nil {
		return nil, decodeErr(rt, sr.Offset(), "registering object id", err)
	}

	var nullsRemaining int64
	for i := 0; i < n; i++ {
		if nullsRemaining > 0 {
			inst.Values[i] = nil
			nullsRemaining--
			continue
		}

		elemByte, err := sr.ReadByte()
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "reading array element discriminant", err)
		}
		elemRt := RecordType(elemByte)

		switch elemRt {
		case RecordBinaryObjectString:
			s, err := r.readBinaryObjectString(sr, objTable)
			if err != nil {
				return nil, err
			}
			inst.Values[i] = s
		case RecordMemberReference:
			refId, err := sr.ReadInt32()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading reference id", err)
			}
			target, ok := objTable.lookup(refId)
			if !ok {
				return nil, decodeErr(rt, sr.Offset(), "string array element references an object id not yet registered", ErrDanglingReference)
			}
			s, ok := target.(*StringInstance)
			if !ok {
				return nil, decodeErr(rt, sr.Offset(), "string array element reference does not resolve to a string", ErrInvalidRecord(elemRt))
			}
			inst.Values[i] = s
		case RecordObjectNull:
			inst.Values[i] = nil
		case RecordObjectNullMultiple256:
			cnt, err := sr.ReadByte()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading null run count", err)
			}
			inst.Values[i] = nil
			nullsRemaining = int64(cnt) - 1
		case RecordObjectNullMultiple:
			cnt, err := sr.ReadInt32()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading null run count", err)
			}
			inst.Values[i] = nil
			nullsRemaining = int64(cnt) - 1
		default:
			return nil, decodeErr(rt, sr.Offset(), "unexpected element record in string array", ErrInvalidRecord(elemRt))
		}
	}

	return inst, nil
}

func (r *Reader) readArraySingleObject(sr *wire.StreamReader, objTable *objectTable) (*ObjectArrayInstance, error) {
	rt := RecordArraySingleObject
	id, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading object id", err)
	}
	length, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading array length", err)
	}
	n, err := clampLength(r, rt, sr, length)
	if err != nil {
		return nil, err
	}

	inst := &ObjectArrayInstance{ObjectId: id, Values: make([]any, n)}
	if err := objTable.register(id, inst); err != nil {
		return nil, decodeErr(rt, sr.Offset(), "registering object id", err)
	}

	hasPendingRefs, err := r.readObjectElements(sr, objTable, inst.Values, rt)
	if err != nil {
		return nil, err
	}
	if hasPendingRefs {
		objTable.markPending(inst)
	}
	return inst, nil
}

// readObjectElements fills slots with the decoded element stream shared by
// ArraySingleObject and every BinaryArray whose element type is not
// Primitive: null runs, references, nested records, or boxed primitives from
// MemberPrimitiveTyped records. It also enforces the
// value-type consistency rule: once the first non-null element establishes
// whether the array holds inline value-type instances, any later element
// that disagrees is a contract violation.
func (r *Reader) readObjectElements(sr *wire.StreamReader, objTable *objectTable, slots []any, rt RecordType) (bool, error) {
	hasPendingRefs := false
	var nullsRemaining int64
	sawValueType, sawReference := false, false

	for i := range slots {
		if nullsRemaining > 0 {
			slots[i] = nil
			nullsRemaining--
			continue
		}

		elemByte, err := sr.ReadByte()
		if err != nil {
			return false, decodeErr(rt, sr.Offset(), "reading array element discriminant", err)
		}
		elemRt := RecordType(elemByte)

		result, err := r.readRecordBody(sr, objTable, elemRt)
		if err != nil {
			return false, err
		}

		switch v := result.(type) {
		case nullRun:
			slots[i] = nil
			if v.count > 1 {
				nullsRemaining = v.count - 1
			}
		case *ClassInstance:
			if sawReference {
				return false, decodeErr(rt, sr.Offset(), "inline class instance after reference in same array", ErrInvalidPrimitive)
			}
			sawValueType = true
			v.Class.ValueType = true
			slots[i] = v
		case *InstanceReference:
			if sawValueType {
				return false, decodeErr(rt, sr.Offset(), "reference after inline class instance in same array", ErrInvalidPrimitive)
			}
			sawReference = true
			slots[i] = v
			hasPendingRefs = true
		default:
			slots[i] = v
		}
	}

	return hasPendingRefs, nil
}

func (r *Reader) readBinaryArray(sr *wire.StreamReader, objTable *objectTable) (*BinaryArrayInstance, error) {
	rt := RecordBinaryArray
	id, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading object id", err)
	}
	atByte, err := sr.ReadByte()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading array type", err)
	}
	at := BinaryArrayType(atByte)

	rankI32, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading rank", err)
	}
	if rankI32 < 1 {
		return nil, decodeErr(rt, sr.Offset(), "rank must be at least 1", ErrInvalidRecord(rt))
	}
	rank := int(rankI32)
	if at == BinaryArraySingle || at == BinaryArraySingleOffset || at == BinaryArrayJagged || at == BinaryArrayJaggedOffset {
		if rank != 1 {
			return nil, decodeErr(rt, sr.Offset(), fmt.Sprintf("%s requires rank 1, got %d", at, rank), ErrInvalidRecord(rt))
		}
	}

	lengths := make([]int32, rank)
	total := int64(1)
	for i := range lengths {
		lengths[i], err = sr.ReadInt32()
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "reading rank length", err)
		}
		if lengths[i] < 0 {
			if r.opts.Permissive {
				lengths[i] = 0
			} else {
				return nil, decodeErr(rt, sr.Offset(), "negative rank length", ErrInvalidRecord(rt))
			}
		}
		total *= int64(lengths[i])
	}

	var offsets []int32
	if at.hasOffsets() {
		offsets = make([]int32, rank)
		for i := range offsets {
			offsets[i], err = sr.ReadInt32()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading rank offset", err)
			}
		}
	}

	elemByte, err := sr.ReadByte()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading element binary type", err)
	}
	elemBt := BinaryType(elemByte)

	var extra any
	if elemBt.hasExtraInfo() {
		switch elemBt {
		case BinaryTypePrimitive, BinaryTypePrimitiveArray:
			b, err := sr.ReadByte()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading element primitive extra-info", err)
			}
			extra = PrimitiveType(b)
		case BinaryTypeSystemClass:
			name, err := readLengthPrefixedString(sr)
			if err != nil {
				return nil, err
			}
			extra = name
		case BinaryTypeClass:
			name, err := readLengthPrefixedString(sr)
			if err != nil {
				return nil, err
			}
			libId, err := sr.ReadInt32()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading element class library id", err)
			}
			extra = ClassTypeInfo{ClassName: name, LibraryId: libId}
		}
		if err := validateExtraInfo(elemBt, extra); err != nil {
			return nil, decodeErr(rt, sr.Offset(), "validating element extra-info", err)
		}
	}

	n, err := clampLength(r, rt, sr, int32(total))
	if err != nil {
		return nil, err
	}

	inst := &BinaryArrayInstance{
		ObjectId: id, ArrayType: at, Rank: rank, Lengths: lengths, Offsets: offsets,
		ElementBinaryType: elemBt, ElementExtraInfo: extra, Values: make([]any, n),
	}
	if err := objTable.register(id, inst); err != nil {
		return nil, decodeErr(rt, sr.Offset(), "registering object id", err)
	}

	if elemBt == BinaryTypePrimitive {
		pt := extra.(PrimitiveType)
		for i := range inst.Values {
			inst.Values[i], err = readFixedPrimitive(sr, pt)
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading array element", err)
			}
		}
		return inst, nil
	}

	hasPendingRefs, err := r.readObjectElements(sr, objTable, inst.Values, rt)
	if err != nil {
		return nil, err
	}
	if hasPendingRefs {
		objTable.markPending(inst)
	}
	return inst, nil
}

// clampLength validates a wire-supplied element count, applying the
// permissive negative-to-zero clamp shared by every array record.
func clampLength(r *Reader, rt RecordType, sr *wire.StreamReader, length int32) (int, error) {
	if length < 0 {
		if r.opts.Permissive {
			return 0, nil
		}
		return 0, decodeErr(rt, sr.Offset(), "negative array length", ErrInvalidRecord(rt))
	}
	return int(length), nil
}
