package nrbf

import (
	"github.com/skdltmxn/nrbf-go/internal/wire"
)

// classInfo is the (object_id, name, member_names) triple common to every
// class record, read before any type information.
type classInfo struct {
	objectId    int32
	className   string
	memberNames []string
}

func (r *Reader) readClassInfo(sr *wire.StreamReader, rt RecordType) (classInfo, error) {
	id, err := sr.ReadInt32()
	if err != nil {
		return classInfo{}, decodeErr(rt, sr.Offset(), "reading object id", err)
	}
	name, err := readLengthPrefixedString(sr)
	if err != nil {
		return classInfo{}, err
	}
	count, err := sr.ReadInt32()
	if err != nil {
		return classInfo{}, decodeErr(rt, sr.Offset(), "reading member count", err)
	}
	if count < 0 {
		if r.opts.Permissive {
			count = 0
		} else {
			return classInfo{}, decodeErr(rt, sr.Offset(), "negative member count", ErrInvalidRecord(rt))
		}
	}

	names := make([]string, count)
	for i := range names {
		names[i], err = readLengthPrefixedString(sr)
		if err != nil {
			return classInfo{}, err
		}
	}
	return classInfo{objectId: id, className: name, memberNames: names}, nil
}

// readMemberTypeInfo reads the per-member (BinaryType, extra-info) pairs
// that follow a ClassInfo in a full (...WithMembersAndTypes) class record.
func (r *Reader) readMemberTypeInfo(sr *wire.StreamReader, rt RecordType, n int) (*MemberTypeInfo, error) {
	types := make([]BinaryType, n)
	for i := range types {
		b, err := sr.ReadByte()
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "reading member binary type", err)
		}
		types[i] = BinaryType(b)
	}

	extra := make([]any, n)
	for i, bt := range types {
		if !bt.hasExtraInfo() {
			continue
		}
		switch bt {
		case BinaryTypePrimitive, BinaryTypePrimitiveArray:
			b, err := sr.ReadByte()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading member primitive extra-info", err)
			}
			extra[i] = PrimitiveType(b)
		case BinaryTypeSystemClass:
			name, err := readLengthPrefixedString(sr)
			if err != nil {
				return nil, err
			}
			extra[i] = name
		case BinaryTypeClass:
			name, err := readLengthPrefixedString(sr)
			if err != nil {
				return nil, err
			}
			libId, err := sr.ReadInt32()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading member class library id", err)
			}
			extra[i] = ClassTypeInfo{ClassName: name, LibraryId: libId}
		}
		if err := validateExtraInfo(bt, extra[i]); err != nil {
			return nil, decodeErr(rt, sr.Offset(), "validating member extra-info", err)
		}
	}

	return &MemberTypeInfo{BinaryTypes: types, ExtraInfo: extra}, nil
}

// readClassWithMembers handles all four non-ClassWithId class records:
// SystemClassWithMembers, ClassWithMembers, SystemClassWithMembersAndTypes,
// ClassWithMembersAndTypes, selected by (full, explicitLibrary).
func (r *Reader) readClassWithMembers(sr *wire.StreamReader, objTable *objectTable, full, explicitLibrary bool) (*ClassInstance, error) {
	rt := classRecordType(full, explicitLibrary)

	info, err := r.readClassInfo(sr, rt)
	if err != nil {
		return nil, err
	}

	var class *ClassObject

	if full {
		mti, err := r.readMemberTypeInfo(sr, rt, len(info.memberNames))
		if err != nil {
			return nil, err
		}

		lib := systemLibrary
		if explicitLibrary {
			libId, err := sr.ReadInt32()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading class library id", err)
			}
			lib, err = r.store.libraries.lookup(libId)
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "resolving class library", err)
			}
		}

		members := make([]Member, len(info.memberNames))
		for i, name := range info.memberNames {
			members[i] = Member{Index: i, Name: name, BinaryType: mti.BinaryTypes[i], ExtraInfo: mti.ExtraInfo[i]}
		}
		candidate := &ClassObject{Name: info.className, Members: members, Library: lib}
		class, err = r.store.classes.register(candidate)
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "registering class schema", err)
		}
	} else {
		lib := systemLibrary
		if explicitLibrary {
			libId, err := sr.ReadInt32()
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "reading class library id", err)
			}
			lib, err = r.store.libraries.lookup(libId)
			if err != nil {
				return nil, decodeErr(rt, sr.Offset(), "resolving class library", err)
			}
		}
		class, err = r.store.classes.resolvePartial(lib, info.className, info.memberNames)
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "resolving partial class schema", err)
		}
	}

	values, hasPendingRefs, err := r.readInstanceBody(sr, objTable, class.Members)
	if err != nil {
		return nil, err
	}

	inst := &ClassInstance{ObjectId: info.objectId, Class: class, Members: values}
	if err := objTable.register(info.objectId, inst); err != nil {
		return nil, decodeErr(rt, sr.Offset(), "registering object id", err)
	}
	if hasPendingRefs {
		objTable.markPending(inst)
	}
	return inst, nil
}

func classRecordType(full, explicitLibrary bool) RecordType {
	switch {
	case full && explicitLibrary:
		return RecordClassWithMembersAndTypes
	case full && !explicitLibrary:
		return RecordSystemClassWithMembersAndTypes
	case !full && explicitLibrary:
		return RecordClassWithMembers
	default:
		return RecordSystemClassWithMembers
	}
}

func (r *Reader) readClassWithId(sr *wire.StreamReader, objTable *objectTable) (*ClassInstance, error) {
	rt := RecordClassWithId
	objectId, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading object id", err)
	}
	metadataId, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(rt, sr.Offset(), "reading metadata object id", err)
	}

	referenced, ok := objTable.lookup(metadataId)
	if !ok {
		return nil, decodeErr(rt, sr.Offset(), "metadata object id not yet registered", ErrDanglingReference)
	}
	refClass, ok := referenced.(*ClassInstance)
	if !ok {
		return nil, decodeErr(rt, sr.Offset(), "metadata object id does not reference a class instance", ErrInvalidRecord(rt))
	}

	values, hasPendingRefs, err := r.readInstanceBody(sr, objTable, refClass.Class.Members)
	if err != nil {
		return nil, err
	}

	inst := &ClassInstance{ObjectId: objectId, Class: refClass.Class, Members: values}
	if err := objTable.register(objectId, inst); err != nil {
		return nil, decodeErr(rt, sr.Offset(), "registering object id", err)
	}
	if hasPendingRefs {
		objTable.markPending(inst)
	}
	return inst, nil
}

// readInstanceBody reads one value per member in order, handling the
// shared null-run carry-over, the typed-primitive fast path, and nested
// record dispatch for everything else.
func (r *Reader) readInstanceBody(sr *wire.StreamReader, objTable *objectTable, members []Member) ([]any, bool, error) {
	values := make([]any, len(members))
	hasPendingRefs := false
	var nullsRemaining int64

	for i, m := range members {
		if nullsRemaining > 0 {
			values[i] = nil
			nullsRemaining--
			continue
		}

		if m.BinaryType == BinaryTypePrimitive {
			pt, _ := m.ExtraInfo.(PrimitiveType)
			v, err := readFixedPrimitive(sr, pt)
			if err != nil {
				return nil, false, decodeErr(0, sr.Offset(), "reading member primitive value", err)
			}
			values[i] = v
			continue
		}

		rtByte, err := sr.ReadByte()
		if err != nil {
			return nil, false, decodeErr(0, sr.Offset(), "reading member record discriminant", err)
		}
		rt := RecordType(rtByte)

		result, err := r.readRecordBody(sr, objTable, rt)
		if err != nil {
			return nil, false, err
		}

		switch v := result.(type) {
		case nullRun:
			values[i] = nil
			if v.count > 1 {
				nullsRemaining = v.count - 1
			}
		case *InstanceReference:
			values[i] = v
			hasPendingRefs = true
		case Primitive:
			values[i] = v
		default:
			values[i] = v
		}
	}

	return values, hasPendingRefs, nil
}
