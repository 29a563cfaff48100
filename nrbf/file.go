package nrbf

import (
	"bytes"
	"fmt"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// mmapMinSize is the smallest file size ReadFile will bother memory-mapping;
// smaller files are read into memory directly, where mmap's page-alignment
// overhead isn't worth it.
const mmapMinSize = 64 * 1024

// ReadFile is a convenience wrapper that opens path, decodes one NRBF
// message from it with opts, and closes the file before returning.
func ReadFile(path string, opts ReaderOptions) (Instance, error) {
	data, closer, err := openForRead(path)
	if err != nil {
		return nil, err
	}
	defer closer()

	root, err := NewReader(opts).Read(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("nrbf: reading %q: %w", path, err)
	}
	return root, nil
}

// openForRead returns the file's contents as a byte slice, memory-mapping
// large files and falling back to a buffered read for small ones or when
// mmap is unsupported on the current platform.
func openForRead(path string) ([]byte, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("nrbf: opening %q: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("nrbf: stat %q: %w", path, err)
	}

	if stat.Size() < mmapMinSize {
		data, err := io.ReadAll(f)
		if err != nil {
			f.Close()
			return nil, nil, fmt.Errorf("nrbf: reading %q: %w", path, err)
		}
		return data, f.Close, nil
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		// mmap unsupported (e.g. zero-length file, exotic filesystem):
		// fall back to a plain buffered read rather than failing outright.
		raw, rerr := io.ReadAll(f)
		if rerr != nil {
			f.Close()
			return nil, nil, fmt.Errorf("nrbf: reading %q: %w", path, rerr)
		}
		return raw, f.Close, nil
	}

	closer := func() error {
		if err := data.Unmap(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return []byte(data), closer, nil
}

// WriteFile serializes root to path as one NRBF message, creating or
// truncating the file.
func WriteFile(path string, root Instance, opts WriterOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("nrbf: creating %q: %w", path, err)
	}
	defer f.Close()

	if err := NewWriter(opts).Write(f, root); err != nil {
		return fmt.Errorf("nrbf: writing %q: %w", path, err)
	}
	return nil
}
