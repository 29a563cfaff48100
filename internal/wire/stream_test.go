package wire

import (
	"bytes"
	"io"
	"testing"
)

func TestStreamReaderPrimitives(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		read func(r *StreamReader) (any, error)
		want any
	}{
		{"uint16", []byte{0x34, 0x12}, func(r *StreamReader) (any, error) { return r.ReadUint16() }, uint16(0x1234)},
		{"uint32", []byte{0x78, 0x56, 0x34, 0x12}, func(r *StreamReader) (any, error) { return r.ReadUint32() }, uint32(0x12345678)},
		{"int32 negative", []byte{0xFF, 0xFF, 0xFF, 0xFF}, func(r *StreamReader) (any, error) { return r.ReadInt32() }, int32(-1)},
		{"float64", []byte{0, 0, 0, 0, 0, 0, 0xF0, 0x3F}, func(r *StreamReader) (any, error) { return r.ReadFloat64() }, float64(1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewStreamReader(bytes.NewReader(tt.in))
			got, err := tt.read(r)
			if err != nil {
				t.Fatalf("read failed, reason: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if r.Offset() != int64(len(tt.in)) {
				t.Errorf("offset = %d, want %d", r.Offset(), len(tt.in))
			}
		})
	}
}

func TestStreamReaderTruncated(t *testing.T) {
	r := NewStreamReader(bytes.NewReader([]byte{0x01, 0x02}))
	_, err := r.ReadUint32()
	if err != io.ErrUnexpectedEOF {
		t.Fatalf("error = %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func TestStreamWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewStreamWriter(&buf)

	if err := w.WriteUint32(0xDEADBEEF); err != nil {
		t.Fatalf("WriteUint32 failed, reason: %v", err)
	}
	if err := w.WriteInt64(-42); err != nil {
		t.Fatalf("WriteInt64 failed, reason: %v", err)
	}
	if err := w.WriteFloat32(3.5); err != nil {
		t.Fatalf("WriteFloat32 failed, reason: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed, reason: %v", err)
	}

	r := NewStreamReader(bytes.NewReader(buf.Bytes()))
	u, err := r.ReadUint32()
	if err != nil || u != 0xDEADBEEF {
		t.Fatalf("ReadUint32() = %d, %v, want 0xDEADBEEF, nil", u, err)
	}
	i, err := r.ReadInt64()
	if err != nil || i != -42 {
		t.Fatalf("ReadInt64() = %d, %v, want -42, nil", i, err)
	}
	f, err := r.ReadFloat32()
	if err != nil || f != 3.5 {
		t.Fatalf("ReadFloat32() = %v, %v, want 3.5, nil", f, err)
	}
}
