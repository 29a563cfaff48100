package nrbf

import "sync"

// DataStore holds the class and library registries a Reader or Writer
// consults. Reuse across sequential message reads is append-only and safe:
// a DataStore accumulated by one read only ever grows with new class and
// library entries, never mutates existing ones in place outside the
// single-message register/validate path.
//
// A DataStore is not safe for concurrent use by multiple readers/writers at
// once; callers that want to reuse a store across goroutines must
// synchronize externally.
type DataStore struct {
	classes   *classRegistry
	libraries *libraryRegistry
}

// NewDataStore creates an empty DataStore.
func NewDataStore() *DataStore {
	return &DataStore{
		classes:   newClassRegistry(),
		libraries: newLibraryRegistry(),
	}
}

// RegisterKnownMetadata pre-registers a partial class's member schema so
// ClassWithMembers/SystemClassWithMembers records for (library, className)
// can be decoded without inline type information.
func (d *DataStore) RegisterKnownMetadata(lib Library, className string, members []Member) {
	info := &MemberTypeInfo{
		BinaryTypes: make([]BinaryType, len(members)),
		ExtraInfo:   make([]any, len(members)),
	}
	for i, m := range members {
		info.BinaryTypes[i] = m.BinaryType
		info.ExtraInfo[i] = m.ExtraInfo
	}
	d.classes.registerKnownMetadata(lib, className, info)
}

var (
	defaultStore     *DataStore
	defaultStoreOnce sync.Once
)

// DefaultDataStore returns a shared, process-wide DataStore, created on
// first use. It exists purely as an opt-in convenience; per the design
// notes, prefer constructing an explicit DataStore and passing it to
// NewReader/NewWriter.
func DefaultDataStore() *DataStore {
	defaultStoreOnce.Do(func() {
		defaultStore = NewDataStore()
	})
	return defaultStore
}
