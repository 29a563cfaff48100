package nrbf

import "fmt"

// fixup resolves every InstanceReference left behind in instances marked
// pending during the read, per the end-of-message reference-resolution pass:
// a reference to object id 0 resolves to nil, any other id must already be
// present in objTable or ErrDanglingReference is reported.
func (r *Reader) fixup(objTable *objectTable) error {
	for _, inst := range objTable.pending {
		switch v := inst.(type) {
		case *ClassInstance:
			for i, m := range v.Members {
				resolved, err := r.resolveSlot(objTable, m)
				if err != nil {
					return err
				}
				v.Members[i] = resolved
			}
		case *ObjectArrayInstance:
			for i, m := range v.Values {
				resolved, err := r.resolveSlot(objTable, m)
				if err != nil {
					return err
				}
				v.Values[i] = resolved
			}
		case *StringArrayInstance:
			for i, m := range v.Values {
				resolved, err := r.resolveSlot(objTable, m)
				if err != nil {
					return err
				}
				v.Values[i] = resolved
			}
		case *BinaryArrayInstance:
			for i, m := range v.Values {
				resolved, err := r.resolveSlot(objTable, m)
				if err != nil {
					return err
				}
				v.Values[i] = resolved
			}
		}
	}
	return nil
}

// resolveSlot resolves a single member/element slot left behind by the read
// pass. DanglingReference is a strict-mode-only error: in permissive mode an
// unresolved id is treated the same as object id 0, resolving to nil.
func (r *Reader) resolveSlot(objTable *objectTable, v any) (any, error) {
	ref, ok := v.(*InstanceReference)
	if !ok {
		return v, nil
	}
	if ref.ObjectId == 0 {
		return nil, nil
	}
	resolved, ok := objTable.lookup(ref.ObjectId)
	if !ok {
		if r.opts.Permissive {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %d", ErrDanglingReference, ref.ObjectId)
	}
	return resolved, nil
}
