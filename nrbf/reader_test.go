package nrbf

import (
	"bytes"
	"errors"
	"testing"

	"github.com/skdltmxn/nrbf-go/internal/wire"
)

func u32le(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func TestReadStringRoot(t *testing.T) {
	var msg bytes.Buffer
	msg.WriteByte(byte(RecordSerializedStreamHeader))
	msg.Write(u32le(1)) // root id
	msg.Write(u32le(1)) // header id
	msg.Write(u32le(1)) // major
	msg.Write(u32le(0)) // minor
	msg.WriteByte(byte(RecordBinaryObjectString))
	msg.Write(u32le(1)) // object id
	msg.WriteByte(11)   // varint length
	msg.WriteString("Hello World")
	msg.WriteByte(byte(RecordMessageEnd))

	r := NewReader(ReaderOptions{})
	root, err := r.Read(bytes.NewReader(msg.Bytes()))
	if err != nil {
		t.Fatalf("Read failed, reason: %v", err)
	}

	s, ok := root.(*StringInstance)
	if !ok {
		t.Fatalf("root type = %T, want *StringInstance", root)
	}
	if s.Value != "Hello World" {
		t.Errorf("root value = %q, want %q", s.Value, "Hello World")
	}
}

func TestReadMissingRoot(t *testing.T) {
	var msg bytes.Buffer
	msg.WriteByte(byte(RecordSerializedStreamHeader))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(0))
	msg.WriteByte(byte(RecordMessageEnd))

	_, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(msg.Bytes()))
	if !errors.Is(err, ErrMissingRoot) {
		t.Fatalf("error = %v, want %v", err, ErrMissingRoot)
	}
}

func TestReadBadHeaderDiscriminant(t *testing.T) {
	msg := append([]byte{byte(RecordClassWithId)}, make([]byte, 16)...)
	_, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(msg))
	if !errors.Is(err, ErrNotNRBF) {
		t.Fatalf("error = %v, want %v", err, ErrNotNRBF)
	}
}

func TestReadHeaderVersion(t *testing.T) {
	var msg bytes.Buffer
	msg.WriteByte(byte(RecordSerializedStreamHeader))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(2)) // major = 2, unsupported
	msg.Write(u32le(0))
	msg.WriteByte(byte(RecordBinaryObjectString))
	msg.Write(u32le(1))
	msg.WriteByte(1)
	msg.WriteString("x")
	msg.WriteByte(byte(RecordMessageEnd))

	if _, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(msg.Bytes())); !errors.Is(err, ErrInvalidHeader) {
		t.Fatalf("strict mode error = %v, want %v", err, ErrInvalidHeader)
	}

	root, err := NewReader(ReaderOptions{Permissive: true}).Read(bytes.NewReader(msg.Bytes()))
	if err != nil {
		t.Fatalf("permissive mode failed, reason: %v", err)
	}
	if s, ok := root.(*StringInstance); !ok || s.Value != "x" {
		t.Errorf("permissive mode root = %#v, want StringInstance(x)", root)
	}
}

func TestReadLengthPrefixedStringTruncated(t *testing.T) {
	sr := wire.NewStreamReader(bytes.NewReader([]byte{0xC8, 0x01, 0x00, 0x00}))
	if _, err := readLengthPrefixedString(sr); err == nil {
		t.Fatal("expected truncated-input error, got nil")
	}
}

func TestReadLengthPrefixedStringExact(t *testing.T) {
	payload := append([]byte{0xC8, 0x01}, bytes.Repeat([]byte{'a'}, 200)...)
	sr := wire.NewStreamReader(bytes.NewReader(payload))
	s, err := readLengthPrefixedString(sr)
	if err != nil {
		t.Fatalf("readLengthPrefixedString failed, reason: %v", err)
	}
	if len(s) != 200 {
		t.Errorf("len(s) = %d, want 200", len(s))
	}
}

func TestNullRunCarriesOverInClassBody(t *testing.T) {
	class := &ClassObject{
		Name:    "Widget",
		Library: systemLibrary,
		Members: []Member{
			{Index: 0, Name: "a", BinaryType: BinaryTypeObject},
			{Index: 1, Name: "b", BinaryType: BinaryTypeObject},
			{Index: 2, Name: "c", BinaryType: BinaryTypePrimitive, ExtraInfo: PrimitiveInt32},
		},
	}

	var body bytes.Buffer
	body.WriteByte(byte(RecordObjectNullMultiple256))
	body.WriteByte(2) // covers members a and b
	body.Write(u32le(7))

	sr := wire.NewStreamReader(&body)
	r := NewReader(ReaderOptions{})
	objTable := newObjectTable()

	values, hasPending, err := r.readInstanceBody(sr, objTable, class.Members)
	if err != nil {
		t.Fatalf("readInstanceBody failed, reason: %v", err)
	}
	if hasPending {
		t.Error("hasPending = true, want false")
	}
	if values[0] != nil || values[1] != nil {
		t.Errorf("values[0:2] = %v, %v, want nil, nil", values[0], values[1])
	}
	if v, ok := values[2].(Int32Value); !ok || v != 7 {
		t.Errorf("values[2] = %#v, want Int32Value(7)", values[2])
	}
}

func nodeClassRecord(objectId int32) []byte {
	var rec bytes.Buffer
	rec.WriteByte(byte(RecordSystemClassWithMembersAndTypes))
	rec.Write(u32le(uint32(objectId)))
	rec.WriteByte(4) // "Node" length
	rec.WriteString("Node")
	rec.Write(u32le(1)) // member count
	rec.WriteByte(4)    // "next" length
	rec.WriteString("next")
	rec.WriteByte(byte(BinaryTypeObject))
	return rec.Bytes()
}

func TestForwardReferenceResolvesAfterFixup(t *testing.T) {
	var msg bytes.Buffer
	msg.WriteByte(byte(RecordSerializedStreamHeader))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(0))

	msg.Write(nodeClassRecord(1))
	msg.WriteByte(byte(RecordMemberReference))
	msg.Write(u32le(2)) // forward reference to an object not yet on the wire

	msg.WriteByte(byte(RecordClassWithId))
	msg.Write(u32le(2)) // object id
	msg.Write(u32le(1)) // metadata object id (schema source)
	msg.WriteByte(byte(RecordObjectNull))

	msg.WriteByte(byte(RecordMessageEnd))

	root, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(msg.Bytes()))
	if err != nil {
		t.Fatalf("Read failed, reason: %v", err)
	}

	node, ok := root.(*ClassInstance)
	if !ok {
		t.Fatalf("root type = %T, want *ClassInstance", root)
	}
	next, ok := node.Members[0].(*ClassInstance)
	if !ok {
		t.Fatalf("node.Members[0] = %#v (%T), want resolved *ClassInstance", node.Members[0], node.Members[0])
	}
	if next.ObjectId != 2 {
		t.Errorf("next.ObjectId = %d, want 2", next.ObjectId)
	}
	if next.Members[0] != nil {
		t.Errorf("next.Members[0] = %#v, want nil", next.Members[0])
	}
}

func danglingReferenceMessage() []byte {
	var msg bytes.Buffer
	msg.WriteByte(byte(RecordSerializedStreamHeader))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(0))

	msg.Write(nodeClassRecord(1))
	msg.WriteByte(byte(RecordMemberReference))
	msg.Write(u32le(99)) // never registered

	msg.WriteByte(byte(RecordMessageEnd))
	return msg.Bytes()
}

func TestDanglingReferenceStrict(t *testing.T) {
	_, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(danglingReferenceMessage()))
	if !errors.Is(err, ErrDanglingReference) {
		t.Fatalf("error = %v, want %v", err, ErrDanglingReference)
	}
}

func TestDanglingReferencePermissive(t *testing.T) {
	root, err := NewReader(ReaderOptions{Permissive: true}).Read(bytes.NewReader(danglingReferenceMessage()))
	if err != nil {
		t.Fatalf("permissive mode failed, reason: %v", err)
	}
	node, ok := root.(*ClassInstance)
	if !ok {
		t.Fatalf("root type = %T, want *ClassInstance", root)
	}
	if node.Members[0] != nil {
		t.Errorf("node.Members[0] = %#v, want nil", node.Members[0])
	}
}

func TestClassWithMembersAndTypesRoundTrip(t *testing.T) {
	var msg bytes.Buffer
	msg.WriteByte(byte(RecordSerializedStreamHeader))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(1))
	msg.Write(u32le(0))

	msg.WriteByte(byte(RecordSystemClassWithMembersAndTypes))
	msg.Write(u32le(1)) // object id
	msg.WriteByte(4)    // name length
	msg.WriteString("Pair")
	msg.Write(u32le(2)) // member count
	msg.WriteByte(1)    // "x" length
	msg.WriteString("x")
	msg.WriteByte(1) // "y" length
	msg.WriteString("y")
	msg.WriteByte(byte(BinaryTypePrimitive))
	msg.WriteByte(byte(BinaryTypePrimitive))
	msg.WriteByte(byte(PrimitiveInt32))
	msg.WriteByte(byte(PrimitiveInt32))
	msg.Write(u32le(10))
	msg.Write(u32le(20))

	msg.WriteByte(byte(RecordMessageEnd))

	root, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(msg.Bytes()))
	if err != nil {
		t.Fatalf("Read failed, reason: %v", err)
	}
	ci, ok := root.(*ClassInstance)
	if !ok {
		t.Fatalf("root type = %T, want *ClassInstance", root)
	}
	if ci.Class.Name != "Pair" {
		t.Errorf("class name = %q, want Pair", ci.Class.Name)
	}
	x, _ := ci.Members[0].(Int32Value)
	y, _ := ci.Members[1].(Int32Value)
	if x != 10 || y != 20 {
		t.Errorf("members = %v, %v, want 10, 20", x, y)
	}

	var out bytes.Buffer
	if err := NewWriter(WriterOptions{}).Write(&out, root); err != nil {
		t.Fatalf("Write failed, reason: %v", err)
	}

	root2, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("re-read after Write failed, reason: %v", err)
	}
	ci2, ok := root2.(*ClassInstance)
	if !ok {
		t.Fatalf("re-read root type = %T, want *ClassInstance", root2)
	}
	if ci2.Class.Name != ci.Class.Name {
		t.Errorf("re-read class name = %q, want %q", ci2.Class.Name, ci.Class.Name)
	}
	x2, _ := ci2.Members[0].(Int32Value)
	y2, _ := ci2.Members[1].(Int32Value)
	if x2 != x || y2 != y {
		t.Errorf("re-read members = %v, %v, want %v, %v", x2, y2, x, y)
	}
}
