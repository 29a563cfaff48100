package nrbf

import (
	"fmt"
	"io"

	"github.com/skdltmxn/nrbf-go/internal/varint"
	"github.com/skdltmxn/nrbf-go/internal/wire"
)

// WriterOptions configures a Writer.
type WriterOptions struct {
	// DataStore is kept on the Writer; if nil, a fresh DataStore is created
	// for this Writer alone. Write does not consult it: class schemas are
	// emitted as they appear on the instances, without validation against a
	// registry.
	DataStore *DataStore

	// HeaderId is written verbatim into the SerializedStreamHeader record.
	// Most producers leave this at -1, meaning "no header record".
	HeaderId int32
}

// Writer encodes an in-memory object graph as an NRBF message.
type Writer struct {
	opts  WriterOptions
	store *DataStore
}

// NewWriter creates a Writer with the given options.
func NewWriter(opts WriterOptions) *Writer {
	store := opts.DataStore
	if store == nil {
		store = NewDataStore()
	}
	return &Writer{opts: opts, store: store}
}

// writeState is the per-message bookkeeping a Write call accumulates: object
// identity assignment, library id assignment, and which class schemas have
// already had a full (WithMembersAndTypes) record emitted.
type writeState struct {
	sw *wire.StreamWriter

	objIds    map[Instance]int32
	nextObjId int32

	libIds    map[string]int32
	nextLibId int32

	// stringIds pools BinaryObjectString records by textual value: distinct
	// *StringInstance values holding the same text share one record and one
	// object id, subsequent occurrences written as a MemberReference.
	stringIds map[string]int32

	classFirstObj map[classKey]int32

	// written tracks instances whose own defining record has already been
	// emitted (inline, at the point of first reference). Any later
	// occurrence of the same instance is written as a MemberReference
	// instead of being re-embedded, and breaks cycles.
	written map[Instance]bool
}

// Write serializes root and everything reachable from it as one NRBF
// message.
func (w *Writer) Write(out io.Writer, root Instance) error {
	sw := wire.NewStreamWriter(out)
	st := &writeState{
		sw:            sw,
		objIds:        make(map[Instance]int32),
		nextObjId:     1,
		libIds:        map[string]int32{systemLibrary.Key(): SystemLibraryId},
		nextLibId:     -2,
		stringIds:     make(map[string]int32),
		classFirstObj: make(map[classKey]int32),
		written:       make(map[Instance]bool),
	}

	order, err := collectOrder(root)
	if err != nil {
		return err
	}
	for _, inst := range order {
		st.objIds[inst] = st.nextObjId
		st.nextObjId++
	}

	rootId := st.objIds[root]
	if err := w.writeHeader(st, rootId); err != nil {
		return err
	}

	if err := w.writeInstance(st, root); err != nil {
		return err
	}

	if err := sw.WriteByte(byte(RecordMessageEnd)); err != nil {
		return err
	}
	return sw.Flush()
}

func (w *Writer) writeHeader(st *writeState, rootId int32) error {
	sw := st.sw
	if err := sw.WriteByte(byte(RecordSerializedStreamHeader)); err != nil {
		return err
	}
	if err := sw.WriteInt32(rootId); err != nil {
		return err
	}
	if err := sw.WriteInt32(w.opts.HeaderId); err != nil {
		return err
	}
	if err := sw.WriteInt32(1); err != nil {
		return err
	}
	return sw.WriteInt32(0)
}

// collectOrder walks the graph reachable from root in the order its
// constituent objects must be written: every distinct instance exactly once,
// parents before the children reached only via a first occurrence (children
// reached again later are written as references, not revisited here).
func collectOrder(root Instance) ([]Instance, error) {
	var order []Instance
	seen := make(map[Instance]bool)

	var visit func(inst Instance) error
	visit = func(inst Instance) error {
		if inst == nil || seen[inst] {
			return nil
		}
		seen[inst] = true
		order = append(order, inst)

		switch v := inst.(type) {
		case *ClassInstance:
			for _, m := range v.Members {
				if child, ok := m.(Instance); ok {
					if err := visit(child); err != nil {
						return err
					}
				}
			}
		case *ObjectArrayInstance:
			for _, m := range v.Values {
				if child, ok := m.(Instance); ok {
					if err := visit(child); err != nil {
						return err
					}
				}
			}
		case *StringArrayInstance:
			for _, m := range v.Values {
				if child, ok := m.(Instance); ok {
					if err := visit(child); err != nil {
						return err
					}
				}
			}
		case *BinaryArrayInstance:
			for _, m := range v.Values {
				if child, ok := m.(Instance); ok {
					if err := visit(child); err != nil {
						return err
					}
				}
			}
		case *PrimitiveArrayInstance, *StringInstance:
			// leaves: no nested instances
		case *InstanceReference:
			return fmt.Errorf("nrbf: cannot write an unresolved InstanceReference (object id %d)", v.ObjectId)
		default:
			return fmt.Errorf("nrbf: cannot write instance of type %T", inst)
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return order, nil
}

func (w *Writer) writeInstance(st *writeState, inst Instance) error {
	st.written[inst] = true
	switch v := inst.(type) {
	case *ClassInstance:
		return w.writeClassInstance(st, v)
	case *PrimitiveArrayInstance:
		return w.writePrimitiveArray(st, v)
	case *ObjectArrayInstance:
		return w.writeObjectArray(st, v)
	case *StringArrayInstance:
		return w.writeStringArray(st, v)
	case *BinaryArrayInstance:
		return w.writeBinaryArray(st, v)
	case *StringInstance:
		return w.writeStringInstance(st, v)
	default:
		return fmt.Errorf("nrbf: cannot write instance of type %T", inst)
	}
}

func (w *Writer) ensureLibrary(st *writeState, lib Library) (int32, error) {
	key := lib.Key()
	if id, ok := st.libIds[key]; ok {
		return id, nil
	}
	id := st.nextLibId
	st.nextLibId--
	st.libIds[key] = id

	if err := st.sw.WriteByte(byte(RecordBinaryLibrary)); err != nil {
		return 0, err
	}
	if err := st.sw.WriteInt32(id); err != nil {
		return 0, err
	}
	if err := writeLengthPrefixedString(st.sw, lib.Spec()); err != nil {
		return 0, err
	}
	return id, nil
}

func (w *Writer) writeClassInstance(st *writeState, inst *ClassInstance) error {
	sw := st.sw
	key := inst.Class.key()

	if firstId, ok := st.classFirstObj[key]; ok {
		if err := sw.WriteByte(byte(RecordClassWithId)); err != nil {
			return err
		}
		if err := sw.WriteInt32(st.objIds[inst]); err != nil {
			return err
		}
		if err := sw.WriteInt32(firstId); err != nil {
			return err
		}
		return w.writeInstanceBody(st, inst.Class.Members, inst.Members)
	}

	st.classFirstObj[key] = st.objIds[inst]

	isSystem := inst.Class.Library.Key() == systemLibrary.Key()
	rt := classRecordType(true, !isSystem)
	if err := sw.WriteByte(byte(rt)); err != nil {
		return err
	}
	if err := sw.WriteInt32(st.objIds[inst]); err != nil {
		return err
	}
	if err := writeLengthPrefixedString(sw, inst.Class.Name); err != nil {
		return err
	}
	if err := sw.WriteInt32(int32(len(inst.Class.Members))); err != nil {
		return err
	}
	for _, m := range inst.Class.Members {
		if err := writeLengthPrefixedString(sw, m.Name); err != nil {
			return err
		}
	}
	for _, m := range inst.Class.Members {
		if err := sw.WriteByte(byte(m.BinaryType)); err != nil {
			return err
		}
	}
	for _, m := range inst.Class.Members {
		if err := w.writeMemberExtraInfo(st, m.BinaryType, m.ExtraInfo); err != nil {
			return err
		}
	}
	if !isSystem {
		libId, err := w.ensureLibrary(st, inst.Class.Library)
		if err != nil {
			return err
		}
		if err := sw.WriteInt32(libId); err != nil {
			return err
		}
	}

	return w.writeInstanceBody(st, inst.Class.Members, inst.Members)
}

func (w *Writer) writeMemberExtraInfo(st *writeState, bt BinaryType, extra any) error {
	if !bt.hasExtraInfo() {
		return nil
	}
	switch bt {
	case BinaryTypePrimitive, BinaryTypePrimitiveArray:
		return st.sw.WriteByte(byte(extra.(PrimitiveType)))
	case BinaryTypeSystemClass:
		return writeLengthPrefixedString(st.sw, extra.(string))
	case BinaryTypeClass:
		cti := extra.(ClassTypeInfo)
		if err := writeLengthPrefixedString(st.sw, cti.ClassName); err != nil {
			return err
		}
		return st.sw.WriteInt32(cti.LibraryId)
	}
	return nil
}

// writeInstanceBody writes one value per member in order, collapsing runs of
// consecutive nil slots into a single null-run record.
func (w *Writer) writeInstanceBody(st *writeState, members []Member, values []any) error {
	i := 0
	for i < len(values) {
		if members[i].BinaryType == BinaryTypePrimitive {
			pt := members[i].ExtraInfo.(PrimitiveType)
			v, ok := values[i].(Primitive)
			if !ok {
				return fmt.Errorf("nrbf: member %q expects a primitive value, got %T", members[i].Name, values[i])
			}
			if v.PrimitiveType() != pt {
				return fmt.Errorf("nrbf: member %q expects primitive type %s, got %s", members[i].Name, pt, v.PrimitiveType())
			}
			if err := writeFixedPrimitive(st.sw, v); err != nil {
				return err
			}
			i++
			continue
		}

		if values[i] == nil {
			run := 1
			for i+run < len(values) && values[i+run] == nil && members[i+run].BinaryType != BinaryTypePrimitive {
				run++
			}
			if err := w.writeNullRun(st.sw, run); err != nil {
				return err
			}
			i += run
			continue
		}

		if err := w.writeValueSlot(st, values[i]); err != nil {
			return err
		}
		i++
	}
	return nil
}

func (w *Writer) writeNullRun(sw *wire.StreamWriter, count int) error {
	switch {
	case count == 1:
		return sw.WriteByte(byte(RecordObjectNull))
	case count <= 255:
		if err := sw.WriteByte(byte(RecordObjectNullMultiple256)); err != nil {
			return err
		}
		return sw.WriteByte(byte(count))
	default:
		if err := sw.WriteByte(byte(RecordObjectNullMultiple)); err != nil {
			return err
		}
		return sw.WriteInt32(int32(count))
	}
}

// writeValueSlot writes one non-nil member/array-element value: either a
// MemberReference to an already-fully-written instance, or the instance's
// own defining record inline on first occurrence.
func (w *Writer) writeValueSlot(st *writeState, v any) error {
	inst, ok := v.(Instance)
	if !ok {
		return fmt.Errorf("nrbf: unexpected value %T in instance body", v)
	}

	id, assigned := st.objIds[inst]
	if !assigned {
		return fmt.Errorf("nrbf: instance %T not present in write order", inst)
	}
	if st.written[inst] {
		return w.writeReference(st.sw, id)
	}
	return w.writeInstance(st, inst)
}

func (w *Writer) writeReference(sw *wire.StreamWriter, id int32) error {
	if err := sw.WriteByte(byte(RecordMemberReference)); err != nil {
		return err
	}
	return sw.WriteInt32(id)
}

func (w *Writer) writeStringInstance(st *writeState, inst *StringInstance) error {
	sw := st.sw
	id := st.objIds[inst]

	if firstId, ok := st.stringIds[inst.Value]; ok {
		// This instance's own id was pre-assigned but never defined by a
		// record of its own; redirect it to the pooled id so any later
		// MemberReference to this same pointer targets a real record.
		st.objIds[inst] = firstId
		return w.writeReference(sw, firstId)
	}
	st.stringIds[inst.Value] = id

	if err := sw.WriteByte(byte(RecordBinaryObjectString)); err != nil {
		return err
	}
	if err := sw.WriteInt32(id); err != nil {
		return err
	}
	return writeLengthPrefixedString(sw, inst.Value)
}

func (w *Writer) writePrimitiveArray(st *writeState, inst *PrimitiveArrayInstance) error {
	sw := st.sw
	if err := sw.WriteByte(byte(RecordArraySinglePrimitive)); err != nil {
		return err
	}
	if err := sw.WriteInt32(st.objIds[inst]); err != nil {
		return err
	}
	if err := sw.WriteInt32(int32(len(inst.Values))); err != nil {
		return err
	}
	if err := sw.WriteByte(byte(inst.ElementKind)); err != nil {
		return err
	}
	for _, v := range inst.Values {
		if err := writeFixedPrimitive(sw, v); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeObjectArray(st *writeState, inst *ObjectArrayInstance) error {
	sw := st.sw
	if err := sw.WriteByte(byte(RecordArraySingleObject)); err != nil {
		return err
	}
	if err := sw.WriteInt32(st.objIds[inst]); err != nil {
		return err
	}
	if err := sw.WriteInt32(int32(len(inst.Values))); err != nil {
		return err
	}
	return w.writeElementSequence(st, inst.Values)
}

func (w *Writer) writeStringArray(st *writeState, inst *StringArrayInstance) error {
	sw := st.sw
	if err := sw.WriteByte(byte(RecordArraySingleString)); err != nil {
		return err
	}
	if err := sw.WriteInt32(st.objIds[inst]); err != nil {
		return err
	}
	if err := sw.WriteInt32(int32(len(inst.Values))); err != nil {
		return err
	}
	return w.writeElementSequence(st, inst.Values)
}

func (w *Writer) writeBinaryArray(st *writeState, inst *BinaryArrayInstance) error {
	sw := st.sw
	if err := sw.WriteByte(byte(RecordBinaryArray)); err != nil {
		return err
	}
	if err := sw.WriteInt32(st.objIds[inst]); err != nil {
		return err
	}
	if err := sw.WriteByte(byte(inst.ArrayType)); err != nil {
		return err
	}
	if err := sw.WriteInt32(int32(inst.Rank)); err != nil {
		return err
	}
	for _, l := range inst.Lengths {
		if err := sw.WriteInt32(l); err != nil {
			return err
		}
	}
	if inst.ArrayType.hasOffsets() {
		for _, o := range inst.Offsets {
			if err := sw.WriteInt32(o); err != nil {
				return err
			}
		}
	}
	if err := sw.WriteByte(byte(inst.ElementBinaryType)); err != nil {
		return err
	}
	if err := w.writeMemberExtraInfo(st, inst.ElementBinaryType, inst.ElementExtraInfo); err != nil {
		return err
	}

	if inst.ElementBinaryType == BinaryTypePrimitive {
		for _, v := range inst.Values {
			if err := writeFixedPrimitive(sw, v.(Primitive)); err != nil {
				return err
			}
		}
		return nil
	}
	return w.writeElementSequence(st, inst.Values)
}

// writeElementSequence writes an array's element stream, collapsing nil
// runs exactly like writeInstanceBody but without the per-member
// fixed-primitive fast path (array elements carry their own record tags).
func (w *Writer) writeElementSequence(st *writeState, values []any) error {
	i := 0
	for i < len(values) {
		if values[i] == nil {
			run := 1
			for i+run < len(values) && values[i+run] == nil {
				run++
			}
			if err := w.writeNullRun(st.sw, run); err != nil {
				return err
			}
			i += run
			continue
		}
		if err := w.writeValueSlot(st, values[i]); err != nil {
			return err
		}
		i++
	}
	return nil
}

func writeLengthPrefixedString(sw *wire.StreamWriter, s string) error {
	raw := []byte(s)
	if _, err := varint.WriteInt(sw, uint32(len(raw))); err != nil {
		return err
	}
	return sw.WriteBytes(raw)
}
