package nrbf

import "fmt"

// libraryRegistry maps stream-local library ids to their canonical Library,
// populated by BinaryLibrary records during a single message read.
type libraryRegistry struct {
	byId map[int32]Library
}

func newLibraryRegistry() *libraryRegistry {
	return &libraryRegistry{byId: map[int32]Library{SystemLibraryId: systemLibrary}}
}

func (r *libraryRegistry) register(id int32, lib Library) {
	r.byId[id] = lib
}

func (r *libraryRegistry) lookup(id int32) (Library, error) {
	lib, ok := r.byId[id]
	if !ok {
		return Library{}, fmt.Errorf("nrbf: unknown library id %d", id)
	}
	return lib, nil
}

func (r *libraryRegistry) reset() {
	r.byId = map[int32]Library{SystemLibraryId: systemLibrary}
}

// classRegistry holds ClassObject schemas keyed by (library, name), shared
// between the reader's ClassWith* handlers. Reuse across sequential message
// reads on the same DataStore is append-only: class(library, name) → schema
// may only be inserted, never removed or overwritten with a conflicting one.
type classRegistry struct {
	byKey map[classKey]*ClassObject
	known map[classKey]*MemberTypeInfo
}

func newClassRegistry() *classRegistry {
	return &classRegistry{
		byKey: make(map[classKey]*ClassObject),
		known: make(map[classKey]*MemberTypeInfo),
	}
}

// registerKnownMetadata pre-registers member type info for a partial class so
// it can be decoded without an inline MemberTypeInfo record.
func (r *classRegistry) registerKnownMetadata(lib Library, className string, info *MemberTypeInfo) {
	r.known[classKey{libraryKey: lib.Key(), name: className}] = info
}

// register inserts or validates a full schema. If a schema already exists at
// the same key, it must be member-for-member equal or ErrSchemaConflict is
// returned.
func (r *classRegistry) register(c *ClassObject) (*ClassObject, error) {
	key := c.key()
	if existing, ok := r.byKey[key]; ok {
		if !existing.Equal(c) {
			return nil, fmt.Errorf("%w: library=%s name=%s", ErrSchemaConflict, c.Library.Name, c.Name)
		}
		return existing, nil
	}
	r.byKey[key] = c
	return c, nil
}

// resolvePartial looks up pre-registered metadata for a partial class
// record, applying it to the given member names in order.
func (r *classRegistry) resolvePartial(lib Library, className string, memberNames []string) (*ClassObject, error) {
	key := classKey{libraryKey: lib.Key(), name: className}
	if existing, ok := r.byKey[key]; ok {
		return existing, nil
	}

	info, ok := r.known[key]
	if !ok {
		return nil, fmt.Errorf("%w: library=%s name=%s", ErrMissingSchema, lib.Name, className)
	}
	if len(info.BinaryTypes) != len(memberNames) {
		return nil, fmt.Errorf("%w: known metadata has %d members, record has %d",
			ErrMissingSchema, len(info.BinaryTypes), len(memberNames))
	}

	members := make([]Member, len(memberNames))
	for i, name := range memberNames {
		members[i] = Member{Index: i, Name: name, BinaryType: info.BinaryTypes[i], ExtraInfo: info.ExtraInfo[i]}
	}

	c := &ClassObject{Name: className, Members: members, Partial: true, Library: lib}
	return r.register(c)
}

func (r *classRegistry) reset() {
	r.byKey = make(map[classKey]*ClassObject)
}

// objectTable is the ID→Instance map populated while reading a message,
// plus the list of instances carrying unresolved InstanceReference slots
// that must be fixed up at MessageEnd.
type objectTable struct {
	byId    map[int32]Instance
	pending []Instance
}

func newObjectTable() *objectTable {
	return &objectTable{byId: make(map[int32]Instance)}
}

func (t *objectTable) register(id int32, inst Instance) error {
	if _, exists := t.byId[id]; exists {
		return fmt.Errorf("%w: %d", ErrDuplicateObjectId, id)
	}
	t.byId[id] = inst
	return nil
}

func (t *objectTable) lookup(id int32) (Instance, bool) {
	inst, ok := t.byId[id]
	return inst, ok
}

func (t *objectTable) markPending(inst Instance) {
	t.pending = append(t.pending, inst)
}

func (t *objectTable) clearPending() {
	t.pending = nil
}
