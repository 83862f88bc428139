package depgraph

import "sort"

// TopoOrder returns the task ids in an order where every dependency comes
// before its dependent, using Kahn's algorithm over the cleaned edges.
// Ties among simultaneously ready nodes break with the supplied comparison
// so the output is deterministic. The caller must pass an acyclic
// dependency set (Resolve guarantees one); every id is consumed exactly
// once.
func TopoOrder(ids []string, deps map[string][]string, less func(a, b string) bool) []string {
	known := make(map[string]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}

	indegree := make(map[string]int, len(ids))
	dependents := make(map[string][]string, len(ids))
	for _, id := range ids {
		for _, dep := range deps[id] {
			if !known[dep] {
				continue
			}
			indegree[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	ready := make([]string, 0, len(ids))
	for _, id := range ids {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool { return less(ready[i], ready[j]) })

	out := make([]string, 0, len(ids))
	for len(ready) > 0 {
		next := ready[0]
		ready = ready[1:]
		out = append(out, next)
		released := false
		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
				released = true
			}
		}
		if released {
			sort.SliceStable(ready, func(i, j int) bool { return less(ready[i], ready[j]) })
		}
	}
	return out
}
