package varint

import (
	"bytes"
	"testing"
)

func TestReadIntRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   uint32
		want []byte
	}{
		{"zero", 0, []byte{0x00}},
		{"single byte max", 0x7F, []byte{0x7F}},
		{"two bytes", 200, []byte{0xC8, 0x01}},
		{"three bytes", 1 << 16, []byte{0x80, 0x80, 0x04}},
		{"max int32", 0x7FFFFFFF, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x07}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteInt(&buf, tt.in)
			if err != nil {
				t.Fatalf("WriteInt(%d) failed, reason: %v", tt.in, err)
			}
			if !bytes.Equal(buf.Bytes(), tt.want) {
				t.Fatalf("WriteInt(%d) = %x, want %x", tt.in, buf.Bytes(), tt.want)
			}
			if n != len(tt.want) {
				t.Errorf("WriteInt(%d) returned n=%d, want %d", tt.in, n, len(tt.want))
			}

			consumed, got, err := ReadInt(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("ReadInt(%x) failed, reason: %v", buf.Bytes(), err)
			}
			if got != tt.in {
				t.Errorf("ReadInt(%x) = %d, want %d", buf.Bytes(), got, tt.in)
			}
			if consumed != len(tt.want) {
				t.Errorf("ReadInt(%x) consumed %d bytes, want %d", buf.Bytes(), consumed, len(tt.want))
			}
		})
	}
}

func TestReadIntMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"fifth byte high bits set", []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
		{"never terminates within five bytes", []byte{0x80, 0x80, 0x80, 0x80, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadInt(bytes.NewReader(tt.in))
			if err != ErrMalformed {
				t.Fatalf("ReadInt(%x) error = %v, want %v", tt.in, err, ErrMalformed)
			}
		})
	}
}

func TestCharRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   rune
	}{
		{"ascii", 'A'},
		{"two byte", 'é'},
		{"three byte", '中'},
		{"four byte", '😀'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := WriteChar(&buf, tt.in)
			if err != nil {
				t.Fatalf("WriteChar(%q) failed, reason: %v", tt.in, err)
			}
			if n != len(string(tt.in)) {
				t.Errorf("WriteChar(%q) wrote %d bytes, want %d", tt.in, n, len(string(tt.in)))
			}

			got, consumed, err := ReadChar(bytes.NewReader(buf.Bytes()))
			if err != nil {
				t.Fatalf("ReadChar(%x) failed, reason: %v", buf.Bytes(), err)
			}
			if got != tt.in {
				t.Errorf("ReadChar(%x) = %q, want %q", buf.Bytes(), got, tt.in)
			}
			if consumed != n {
				t.Errorf("ReadChar(%x) consumed %d, want %d", buf.Bytes(), consumed, n)
			}
		})
	}
}

func TestReadCharInvalidLeadByte(t *testing.T) {
	_, _, err := ReadChar(bytes.NewReader([]byte{0xFF}))
	if err != ErrMalformed {
		t.Fatalf("ReadChar(0xFF) error = %v, want %v", err, ErrMalformed)
	}
}
