package nrbf

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/skdltmxn/nrbf-go/internal/varint"
	"github.com/skdltmxn/nrbf-go/internal/wire"
)

// ReaderOptions configures a Reader's strictness and schema-sharing behavior.
type ReaderOptions struct {
	// Permissive relaxes strict checks: negative lengths are treated as
	// zero and the header version is not enforced.
	Permissive bool

	// DataStore supplies the class/library registries. If nil, a fresh
	// DataStore is created for this Reader alone.
	DataStore *DataStore
}

// Reader decodes NRBF messages into in-memory object graphs.
type Reader struct {
	opts  ReaderOptions
	store *DataStore
}

// NewReader creates a Reader with the given options.
func NewReader(opts ReaderOptions) *Reader {
	store := opts.DataStore
	if store == nil {
		store = NewDataStore()
	}
	return &Reader{opts: opts, store: store}
}

// Reset discards accumulated per-message state, including the backing
// DataStore's class and library registries.
func (r *Reader) Reset() {
	r.store.classes.reset()
	r.store.libraries.reset()
}

// Read reads one NRBF message from in and returns its root instance.
func (r *Reader) Read(in io.Reader) (Instance, error) {
	sr := wire.NewStreamReader(in)

	header, err := r.readHeader(sr)
	if err != nil {
		return nil, err
	}

	objTable := newObjectTable()
	defer objTable.clearPending()

	for {
		rtByte, err := sr.ReadByte()
		if err != nil {
			return nil, decodeErr(0, sr.Offset(), "reading record discriminant", err)
		}
		rt := RecordType(rtByte)

		if rt == RecordMessageEnd {
			break
		}
		if rt == RecordSerializedStreamHeader {
			return nil, decodeErr(rt, sr.Offset(), "duplicate header record", ErrNotNRBF)
		}

		if _, err := r.readRecordBody(sr, objTable, rt); err != nil {
			return nil, err
		}
		// Top-level null, library, MemberPrimitiveTyped and MemberReference
		// records are no-ops against the root; every identity-bearing record
		// registers itself in objTable.
	}

	if err := r.fixup(objTable); err != nil {
		return nil, err
	}

	root, ok := objTable.lookup(header.RootId)
	if !ok {
		return nil, decodeErr(RecordMessageEnd, sr.Offset(), "root object id not found", ErrMissingRoot)
	}
	return root, nil
}

func (r *Reader) readHeader(sr *wire.StreamReader) (Header, error) {
	first, err := sr.ReadByte()
	if err != nil {
		return Header{}, decodeErr(RecordSerializedStreamHeader, 0, "reading header discriminant", err)
	}
	if RecordType(first) != RecordSerializedStreamHeader {
		return Header{}, decodeErr(RecordType(first), sr.Offset(), "first record must be SerializedStreamHeader", ErrNotNRBF)
	}

	rootId, err := sr.ReadInt32()
	if err != nil {
		return Header{}, decodeErr(RecordSerializedStreamHeader, sr.Offset(), "reading root id", err)
	}
	headerId, err := sr.ReadInt32()
	if err != nil {
		return Header{}, decodeErr(RecordSerializedStreamHeader, sr.Offset(), "reading header id", err)
	}
	major, err := sr.ReadInt32()
	if err != nil {
		return Header{}, decodeErr(RecordSerializedStreamHeader, sr.Offset(), "reading major version", err)
	}
	minor, err := sr.ReadInt32()
	if err != nil {
		return Header{}, decodeErr(RecordSerializedStreamHeader, sr.Offset(), "reading minor version", err)
	}

	h := Header{RootId: rootId, HeaderId: headerId, Major: major, Minor: minor}
	if !r.opts.Permissive && (major != 1 || minor != 0) {
		return Header{}, decodeErr(RecordSerializedStreamHeader, sr.Offset(),
			fmt.Sprintf("unsupported version %d.%d", major, minor), ErrInvalidHeader)
	}
	return h, nil
}

func readLengthPrefixedString(sr *wire.StreamReader) (string, error) {
	_, length, err := varint.ReadInt(sr)
	if err != nil {
		return "", decodeErr(0, sr.Offset(), "reading string length prefix", err)
	}
	raw, err := sr.ReadBytes(int(length))
	if err != nil {
		return "", decodeErr(0, sr.Offset(), "reading string bytes", err)
	}
	if !utf8.Valid(raw) {
		return "", decodeErr(0, sr.Offset(), "invalid UTF-8 in string", ErrNotNRBF)
	}
	return string(raw), nil
}

// readRecordBody parses the payload that follows an already-consumed record
// discriminant byte rt, returning the resulting value: an *XxxInstance for
// identity-bearing records (already registered in objTable), a boxed
// Primitive for MemberPrimitiveTyped, an *InstanceReference for
// MemberReference, or a nullRun for the three null-record kinds.
func (r *Reader) readRecordBody(sr *wire.StreamReader, objTable *objectTable, rt RecordType) (any, error) {
	switch rt {
	case RecordBinaryLibrary:
		return nil, r.readLibraryRecord(sr)

	case RecordBinaryObjectString:
		return r.readBinaryObjectString(sr, objTable)

	case RecordClassWithId:
		return r.readClassWithId(sr, objTable)

	case RecordSystemClassWithMembers:
		return r.readClassWithMembers(sr, objTable, false, false)

	case RecordClassWithMembers:
		return r.readClassWithMembers(sr, objTable, false, true)

	case RecordSystemClassWithMembersAndTypes:
		return r.readClassWithMembers(sr, objTable, true, false)

	case RecordClassWithMembersAndTypes:
		return r.readClassWithMembers(sr, objTable, true, true)

	case RecordArraySinglePrimitive:
		return r.readArraySinglePrimitive(sr, objTable)

	case RecordArraySingleObject:
		return r.readArraySingleObject(sr, objTable)

	case RecordArraySingleString:
		return r.readArraySingleString(sr, objTable)

	case RecordBinaryArray:
		return r.readBinaryArray(sr, objTable)

	case RecordMemberPrimitiveTyped:
		ptByte, err := sr.ReadByte()
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "reading primitive type", err)
		}
		return readFixedPrimitive(sr, PrimitiveType(ptByte))

	case RecordMemberReference:
		id, err := sr.ReadInt32()
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "reading reference id", err)
		}
		return &InstanceReference{ObjectId: id, table: objTable}, nil

	case RecordObjectNull:
		return nullRun{count: 1}, nil

	case RecordObjectNullMultiple256:
		n, err := sr.ReadByte()
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "reading null run count", err)
		}
		return nullRun{count: int64(n)}, nil

	case RecordObjectNullMultiple:
		n, err := sr.ReadInt32()
		if err != nil {
			return nil, decodeErr(rt, sr.Offset(), "reading null run count", err)
		}
		if n < 0 {
			if r.opts.Permissive {
				n = 0
			} else {
				return nil, decodeErr(rt, sr.Offset(), "negative null run count", ErrInvalidRecord(rt))
			}
		}
		return nullRun{count: int64(n)}, nil

	default:
		if rt.isReservedOrUnimplemented() {
			return nil, decodeErr(rt, sr.Offset(), "record not implemented", ErrUnimplementedRecord)
		}
		return nil, decodeErr(rt, sr.Offset(), "unknown record discriminant", ErrUnknownRecordType)
	}
}

// ErrInvalidRecord wraps a record type into a sentinel-compatible error for
// generic invariant violations that aren't covered by a more specific
// sentinel.
func ErrInvalidRecord(rt RecordType) error {
	return fmt.Errorf("nrbf: invalid %s record", rt)
}

func (r *Reader) readLibraryRecord(sr *wire.StreamReader) error {
	id, err := sr.ReadInt32()
	if err != nil {
		return decodeErr(RecordBinaryLibrary, sr.Offset(), "reading library id", err)
	}
	spec, err := readLengthPrefixedString(sr)
	if err != nil {
		return err
	}
	lib, err := ParseLibrarySpec(spec)
	if err != nil {
		return decodeErr(RecordBinaryLibrary, sr.Offset(), "parsing library spec", err)
	}
	r.store.libraries.register(id, lib)
	return nil
}

func (r *Reader) readBinaryObjectString(sr *wire.StreamReader, objTable *objectTable) (*StringInstance, error) {
	id, err := sr.ReadInt32()
	if err != nil {
		return nil, decodeErr(RecordBinaryObjectString, sr.Offset(), "reading object id", err)
	}
	text, err := readLengthPrefixedString(sr)
	if err != nil {
		return nil, err
	}
	inst := &StringInstance{ObjectId: id, Value: text}
	if err := objTable.register(id, inst); err != nil {
		return nil, decodeErr(RecordBinaryObjectString, sr.Offset(), "registering object id", err)
	}
	return inst, nil
}
