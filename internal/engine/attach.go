package engine

import "sort"

// AttachGraph is the undirected graph of attachments between Attachables
// (entities/blocks), keyed by thing id rather than back-pointers — this
// keeps detach O(degree) and avoids ownership cycles between Thing values
// (spec.md §9 "Cyclic/undirected graph").
type AttachGraph struct {
	edges map[string]map[string]bool
}

func NewAttachGraph() *AttachGraph {
	return &AttachGraph{edges: map[string]map[string]bool{}}
}

// Attach inserts the undirected edge a-b. A no-op if the edge already
// exists or a == b.
func (g *AttachGraph) Attach(a, b string) {
	if a == "" || b == "" || a == b {
		return
	}
	g.link(a, b)
	g.link(b, a)
}

func (g *AttachGraph) link(from, to string) {
	set, ok := g.edges[from]
	if !ok {
		set = map[string]bool{}
		g.edges[from] = set
	}
	set[to] = true
}

// Detach removes the edge a-b if present.
func (g *AttachGraph) Detach(a, b string) {
	if set, ok := g.edges[a]; ok {
		delete(set, b)
		if len(set) == 0 {
			delete(g.edges, a)
		}
	}
	if set, ok := g.edges[b]; ok {
		delete(set, a)
		if len(set) == 0 {
			delete(g.edges, b)
		}
	}
}

// DetachAll removes every edge incident to id (used when an entity is
// disabled: it drops all of its own attachments without dissolving the
// rest of the group).
func (g *AttachGraph) DetachAll(id string) {
	set, ok := g.edges[id]
	if !ok {
		return
	}
	for other := range set {
		g.Detach(id, other)
	}
}

// HasEdge reports whether a-b is attached.
func (g *AttachGraph) HasEdge(a, b string) bool {
	set, ok := g.edges[a]
	if !ok {
		return false
	}
	return set[b]
}

// Remove deletes id and every edge incident to it (used when a thing is
// destroyed, e.g. by clear or submit).
func (g *AttachGraph) Remove(id string) {
	g.DetachAll(id)
	delete(g.edges, id)
}

// CollectGroup returns the connected component containing id (including id
// itself), via breadth-first traversal of the attachment graph. The result
// is sorted for deterministic downstream iteration.
func (g *AttachGraph) CollectGroup(id string) []string {
	seen := map[string]bool{id: true}
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for neighbor := range g.edges[cur] {
			if !seen[neighbor] {
				seen[neighbor] = true
				queue = append(queue, neighbor)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
