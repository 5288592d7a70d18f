package dedup

import "testing"

// TestUnionFind checks union, find and same over a small universe.
func TestUnionFind(t *testing.T) {
	uf := newUnionFind(5)

	if uf.same(0, 1) {
		t.Error("fresh elements must be disjoint")
	}

	uf.union(0, 1)
	uf.union(1, 2)

	if !uf.same(0, 2) {
		t.Error("union must be transitive")
	}
	if uf.same(0, 3) {
		t.Error("unrelated elements must stay disjoint")
	}

	// Self union is a no-op.
	uf.union(3, 3)
	if uf.same(3, 4) {
		t.Error("self union must not join anything")
	}

	uf.union(3, 4)
	if !uf.same(4, 3) {
		t.Error("same must be symmetric")
	}
}
