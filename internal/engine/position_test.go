package engine

import "testing"

func TestAreaRadiusZero(t *testing.T) {
	got := Area(Position{5, 5}, 0)
	if len(got) != 1 || got[0] != (Position{5, 5}) {
		t.Fatalf("Area(center,0) = %v, want single center cell", got)
	}
}

func TestAreaIsDiamondNotSquare(t *testing.T) {
	got := Area(Position{0, 0}, 1)
	want := map[Position]bool{
		{0, 0}: true, {0, -1}: true, {0, 1}: true, {-1, 0}: true, {1, 0}: true,
	}
	if len(got) != len(want) {
		t.Fatalf("Area(0,0,1) = %v, want %d cells (diamond, not a 3x3 square)", got, len(want))
	}
	for _, p := range got {
		if !want[p] {
			t.Fatalf("Area(0,0,1) produced corner %v; expected diamond shape", p)
		}
	}
}

func TestAreaOrderingIsDeterministic(t *testing.T) {
	a := Area(Position{3, 3}, 2)
	b := Area(Position{3, 3}, 2)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Area is not deterministic: run1[%d]=%v run2[%d]=%v", i, a[i], i, b[i])
		}
	}
}

func TestDirectionOffsetConvention(t *testing.T) {
	cases := map[Direction]Position{
		North: {0, -1},
		South: {0, 1},
		East:  {1, 0},
		West:  {-1, 0},
	}
	for dir, want := range cases {
		if got := dir.Offset(); got != want {
			t.Fatalf("%s.Offset() = %v, want %v", dir, got, want)
		}
	}
}

func TestRotatedCWandCCWAreInverses(t *testing.T) {
	p := Position{2, 1}
	if got := p.RotatedCW().RotatedCCW(); got != p {
		t.Fatalf("RotatedCW then RotatedCCW = %v, want %v", got, p)
	}
}

func TestChebyshevDistance(t *testing.T) {
	if got := (Position{0, 0}).ChebyshevDistance(Position{3, 1}); got != 3 {
		t.Fatalf("ChebyshevDistance = %d, want 3", got)
	}
}
