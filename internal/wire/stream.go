package wire

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
)

// StreamReader reads little-endian binary primitives from an io.Reader. It
// never materializes the whole input in memory, which matters for NRBF
// streams that can be arbitrarily large and are read once, forward-only.
type StreamReader struct {
	r      *bufio.Reader
	offset int64
}

// NewStreamReader wraps r for primitive reads.
func NewStreamReader(r io.Reader) *StreamReader {
	if br, ok := r.(*bufio.Reader); ok {
		return &StreamReader{r: br}
	}
	return &StreamReader{r: bufio.NewReader(r)}
}

// Offset returns the number of bytes consumed so far.
func (s *StreamReader) Offset() int64 { return s.offset }

// ReadByte reads a single byte.
func (s *StreamReader) ReadByte() (byte, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return 0, wrapEOF(err)
	}
	s.offset++
	return b, nil
}

// ReadBytes reads exactly n bytes.
func (s *StreamReader) ReadBytes(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(s.r, buf); err != nil {
		return nil, wrapEOF(err)
	}
	s.offset += int64(n)
	return buf, nil
}

// ReadUint16 reads an unsigned little-endian 16-bit integer.
func (s *StreamReader) ReadUint16() (uint16, error) {
	b, err := s.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads an unsigned little-endian 32-bit integer.
func (s *StreamReader) ReadUint32() (uint32, error) {
	b, err := s.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads an unsigned little-endian 64-bit integer.
func (s *StreamReader) ReadUint64() (uint64, error) {
	b, err := s.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadInt32 reads a signed little-endian 32-bit integer.
func (s *StreamReader) ReadInt32() (int32, error) {
	v, err := s.ReadUint32()
	return int32(v), err
}

// ReadInt64 reads a signed little-endian 64-bit integer.
func (s *StreamReader) ReadInt64() (int64, error) {
	v, err := s.ReadUint64()
	return int64(v), err
}

// ReadFloat32 reads an IEEE-754 little-endian 32-bit float.
func (s *StreamReader) ReadFloat32() (float32, error) {
	v, err := s.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadFloat64 reads an IEEE-754 little-endian 64-bit float.
func (s *StreamReader) ReadFloat64() (float64, error) {
	v, err := s.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func wrapEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// StreamWriter writes little-endian binary primitives to an io.Writer.
type StreamWriter struct {
	w      *bufio.Writer
	offset int64
}

// NewStreamWriter wraps w for primitive writes.
func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: bufio.NewWriter(w)}
}

// WriteByte writes a single byte.
func (s *StreamWriter) WriteByte(b byte) error {
	if err := s.w.WriteByte(b); err != nil {
		return err
	}
	s.offset++
	return nil
}

// WriteBytes writes raw bytes verbatim.
func (s *StreamWriter) WriteBytes(b []byte) error {
	n, err := s.w.Write(b)
	s.offset += int64(n)
	return err
}

// WriteUint16 writes an unsigned little-endian 16-bit integer.
func (s *StreamWriter) WriteUint16(v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return s.WriteBytes(b[:])
}

// WriteUint32 writes an unsigned little-endian 32-bit integer.
func (s *StreamWriter) WriteUint32(v uint32) error {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return s.WriteBytes(b[:])
}

// WriteUint64 writes an unsigned little-endian 64-bit integer.
func (s *StreamWriter) WriteUint64(v uint64) error {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return s.WriteBytes(b[:])
}

// WriteInt32 writes a signed little-endian 32-bit integer.
func (s *StreamWriter) WriteInt32(v int32) error { return s.WriteUint32(uint32(v)) }

// WriteInt64 writes a signed little-endian 64-bit integer.
func (s *StreamWriter) WriteInt64(v int64) error { return s.WriteUint64(uint64(v)) }

// WriteFloat32 writes an IEEE-754 little-endian 32-bit float.
func (s *StreamWriter) WriteFloat32(v float32) error {
	return s.WriteUint32(math.Float32bits(v))
}

// WriteFloat64 writes an IEEE-754 little-endian 64-bit float.
func (s *StreamWriter) WriteFloat64(v float64) error {
	return s.WriteUint64(math.Float64bits(v))
}

// Flush flushes any buffered data to the underlying writer.
func (s *StreamWriter) Flush() error { return s.w.Flush() }

// Offset returns the number of bytes written so far.
func (s *StreamWriter) Offset() int64 { return s.offset }
