package nrbf

import (
	"bytes"
	"testing"
)

func TestWriterPoolsIdenticalStrings(t *testing.T) {
	class := &ClassObject{
		Name:    "Pair",
		Library: systemLibrary,
		Members: []Member{
			{Index: 0, Name: "a", BinaryType: BinaryTypeString},
			{Index: 1, Name: "b", BinaryType: BinaryTypeString},
		},
	}
	root := &ClassInstance{
		ObjectId: 1,
		Class:    class,
		Members: []any{
			&StringInstance{Value: "dup"},
			&StringInstance{Value: "dup"},
		},
	}

	var out bytes.Buffer
	if err := NewWriter(WriterOptions{}).Write(&out, root); err != nil {
		t.Fatalf("Write failed, reason: %v", err)
	}

	root2, err := NewReader(ReaderOptions{}).Read(bytes.NewReader(out.Bytes()))
	if err != nil {
		t.Fatalf("re-read failed, reason: %v", err)
	}
	ci, ok := root2.(*ClassInstance)
	if !ok {
		t.Fatalf("root type = %T, want *ClassInstance", root2)
	}
	a, ok := ci.Members[0].(*StringInstance)
	if !ok {
		t.Fatalf("Members[0] = %#v, want *StringInstance", ci.Members[0])
	}
	b, ok := ci.Members[1].(*StringInstance)
	if !ok {
		t.Fatalf("Members[1] = %#v, want *StringInstance", ci.Members[1])
	}
	if a.Value != "dup" || b.Value != "dup" {
		t.Errorf("Members = %q, %q, want dup, dup", a.Value, b.Value)
	}
	if a != b {
		t.Errorf("pooled string instances resolved to distinct pointers: %p != %p", a, b)
	}
}
