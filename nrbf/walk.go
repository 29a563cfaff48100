package nrbf

// Visitor receives one callback per instance Walk visits, depth is the
// number of ClassInstance/array hops from the root (the root itself is
// depth 0). Returning false stops descent into that instance's children;
// it does not stop the walk overall.
type Visitor func(inst Instance, depth int) (descend bool)

// Walk performs a depth-first, depth-limited traversal of the object graph
// rooted at root, calling visit once per distinct instance. maxDepth < 0
// means unbounded; a cyclic graph (an instance reachable from itself via
// MemberReference) is visited at most once per Walk call, breaking the
// cycle the same way a printer over a reference graph must.
func Walk(root Instance, maxDepth int, visit Visitor) {
	seen := make(map[Instance]bool)
	var rec func(inst Instance, depth int)
	rec = func(inst Instance, depth int) {
		if inst == nil || seen[inst] {
			return
		}
		seen[inst] = true

		descend := visit(inst, depth)
		if !descend || (maxDepth >= 0 && depth >= maxDepth) {
			return
		}

		switch v := inst.(type) {
		case *ClassInstance:
			for _, m := range v.Members {
				if child, ok := m.(Instance); ok {
					rec(child, depth+1)
				}
			}
		case *ObjectArrayInstance:
			for _, m := range v.Values {
				if child, ok := m.(Instance); ok {
					rec(child, depth+1)
				}
			}
		case *StringArrayInstance:
			for _, m := range v.Values {
				if child, ok := m.(Instance); ok {
					rec(child, depth+1)
				}
			}
		case *BinaryArrayInstance:
			for _, m := range v.Values {
				if child, ok := m.(Instance); ok {
					rec(child, depth+1)
				}
			}
		}
	}
	rec(root, 0)
}
