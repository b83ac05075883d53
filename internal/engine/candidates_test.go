package engine

import "testing"

func TestCandidateSetStartsAtOrigin(t *testing.T) {
	cs := newCandidateSet()
	if len(cs.points) != 1 || cs.points[0] != (candidatePoint{0, 0, 0}) {
		t.Fatalf("new set should hold exactly the origin, got %v", cs.points)
	}
}

func TestCandidateSetCommitAddsFarCorners(t *testing.T) {
	cs := newCandidateSet()
	cs.commit(cuboid{x: 0, y: 0, z: 0, l: 5, w: 4, h: 3})

	want := []candidatePoint{
		{0, 0, 3}, // top face
		{0, 4, 0}, // max-y face
		{5, 0, 0}, // max-x face
	}
	if len(cs.points) != 3 {
		t.Fatalf("expected 3 points after commit, got %v", cs.points)
	}
	// Sorted order is z first, then y, then x, so the lateral anchors come
	// before the top anchor.
	got := cs.points
	if got[0] != (candidatePoint{5, 0, 0}) || got[1] != (candidatePoint{0, 4, 0}) || got[2] != (candidatePoint{0, 0, 3}) {
		t.Errorf("points = %v, want lateral anchors before top: %v", got, want)
	}
}

func TestCandidateSetOrdering(t *testing.T) {
	cs := &candidateSet{}
	cs.add(candidatePoint{1, 0, 5})
	cs.add(candidatePoint{0, 3, 0})
	cs.add(candidatePoint{2, 0, 0})
	cs.add(candidatePoint{0, 0, 0})

	want := []candidatePoint{{0, 0, 0}, {2, 0, 0}, {0, 3, 0}, {1, 0, 5}}
	for i, p := range want {
		if cs.points[i] != p {
			t.Fatalf("position %d: got %v, want %v (full: %v)", i, cs.points[i], p, cs.points)
		}
	}
}

func TestCandidateSetDedupesCoincidentPoints(t *testing.T) {
	cs := &candidateSet{}
	cs.add(candidatePoint{1, 2, 3})
	cs.add(candidatePoint{1.0005, 2, 3})
	if len(cs.points) != 1 {
		t.Errorf("coincident points within tolerance should merge, got %v", cs.points)
	}
}

func TestCandidateSetPrunesEnclosedPoints(t *testing.T) {
	cs := &candidateSet{}
	cs.add(candidatePoint{1, 1, 1}) // strictly inside the next commit
	cs.add(candidatePoint{6, 0, 0}) // outside

	cs.commit(cuboid{x: 0, y: 0, z: 0, l: 5, w: 5, h: 5})

	for _, p := range cs.points {
		if p == (candidatePoint{1, 1, 1}) {
			t.Error("point inside a placed box should be pruned")
		}
	}
	found := false
	for _, p := range cs.points {
		if p == (candidatePoint{6, 0, 0}) {
			found = true
		}
	}
	if !found {
		t.Error("point outside the placed box should survive")
	}
}

func TestCandidatePointOnMaxFaceSurvives(t *testing.T) {
	// A point on the far face of a placed box can still anchor a touching
	// neighbor and must not be pruned.
	p := candidatePoint{5, 0, 0}
	if p.enclosedBy(cuboid{x: 0, y: 0, z: 0, l: 5, w: 5, h: 5}) {
		t.Error("point on the max-x face should not count as enclosed")
	}
	q := candidatePoint{0, 0, 0}
	if !q.enclosedBy(cuboid{x: 0, y: 0, z: 0, l: 5, w: 5, h: 5}) {
		t.Error("the consumed min-corner anchor should count as enclosed")
	}
}
