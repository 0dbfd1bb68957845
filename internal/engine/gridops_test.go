package engine

import "testing"

func newTestState(width, height int) *GameState {
	return &GameState{
		Grid:   NewGrid(width, height, nil),
		Things: NewThingStore(),
		Attach: NewAttachGraph(),
		RNG:    NewRNG(1),
		Config: Config{AttachLimit: 10},
	}
}

func TestIsUnblockedRejectsObstacleAndOutOfBounds(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Grid.SetTerrain(Position{2, 2}, Obstacle)

	if gs.IsUnblocked(Position{2, 2}) {
		t.Fatalf("obstacle cell reported unblocked")
	}
	if gs.IsUnblocked(Position{-1, 0}) {
		t.Fatalf("out-of-bounds cell reported unblocked")
	}
	if !gs.IsUnblocked(Position{5, 5}) {
		t.Fatalf("empty in-bounds cell reported blocked")
	}
}

func TestIsUnblockedIgnoresDispensers(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Things.Register(KindDispenser, Position{1, 1}, nil, nil, &Dispenser{BlockType: "b0"})

	if !gs.IsUnblocked(Position{1, 1}) {
		t.Fatalf("a dispenser-only cell should be unblocked")
	}
}

func TestMoveWithAttachedMovesWholeGroup(t *testing.T) {
	gs := newTestState(10, 10)
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1"}, nil, nil)
	b := gs.Things.Register(KindBlock, Position{5, 6}, nil, &Block{BlockType: "b0"}, nil)
	gs.Attach.Attach(e.ID, b.ID)

	if !gs.moveWithAttached(e.ID, South, 1) {
		t.Fatalf("moveWithAttached failed on an open grid")
	}
	if e.Pos != (Position{5, 6}) || b.Pos != (Position{5, 7}) {
		t.Fatalf("group did not move together: entity=%v block=%v", e.Pos, b.Pos)
	}
}

func TestMoveWithAttachedFailsWhenTargetBlocked(t *testing.T) {
	gs := newTestState(10, 10)
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1"}, nil, nil)
	gs.Things.Register(KindBlock, Position{5, 6}, nil, &Block{BlockType: "b0"}, nil)

	if gs.moveWithAttached(e.ID, South, 1) {
		t.Fatalf("move into an occupied, unattached cell should fail")
	}
	if e.Pos != (Position{5, 5}) {
		t.Fatalf("entity moved despite validation failure: %v", e.Pos)
	}
}

func TestMoveWithAttachedAllowsSwapThroughVacatedCell(t *testing.T) {
	// Two attached things moving together must not collide with each
	// other's own about-to-be-vacated cells (two-phase commit).
	gs := newTestState(10, 10)
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1"}, nil, nil)
	b := gs.Things.Register(KindBlock, Position{4, 5}, nil, &Block{BlockType: "b0"}, nil)
	gs.Attach.Attach(e.ID, b.ID)

	if !gs.moveWithAttached(e.ID, West, 1) {
		t.Fatalf("attached group move should succeed when both cells stay within the group")
	}
	if e.Pos != (Position{4, 5}) || b.Pos != (Position{3, 5}) {
		t.Fatalf("unexpected positions after move: entity=%v block=%v", e.Pos, b.Pos)
	}
}

func TestMoveWithAttachedRespectsAttachLimit(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Config.AttachLimit = 1
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1"}, nil, nil)
	b := gs.Things.Register(KindBlock, Position{5, 6}, nil, &Block{BlockType: "b0"}, nil)
	gs.Attach.Attach(e.ID, b.ID)

	if gs.moveWithAttached(e.ID, North, 1) {
		t.Fatalf("move should fail once the group exceeds attach_limit")
	}
}

func TestAttachThingsRequiresAdjacency(t *testing.T) {
	gs := newTestState(10, 10)
	e := gs.Things.Register(KindEntity, Position{0, 0}, &Entity{AgentName: "a1"}, nil, nil)
	b := gs.Things.Register(KindBlock, Position{5, 5}, nil, &Block{BlockType: "b0"}, nil)

	if gs.attachThings(e, b) {
		t.Fatalf("attach should fail for non-adjacent things")
	}
	if gs.Attach.HasEdge(e.ID, b.ID) {
		t.Fatalf("edge recorded despite failed attach")
	}
}

func TestAttachThingsRespectsCombinedGroupLimit(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Config.AttachLimit = 2
	e := gs.Things.Register(KindEntity, Position{0, 0}, &Entity{AgentName: "a1"}, nil, nil)
	b1 := gs.Things.Register(KindBlock, Position{0, 1}, nil, &Block{BlockType: "b0"}, nil)
	b2 := gs.Things.Register(KindBlock, Position{1, 0}, nil, &Block{BlockType: "b0"}, nil)
	gs.Attach.Attach(b1.ID, b2.ID)

	if gs.attachThings(e, b1) {
		t.Fatalf("attach should fail once the combined group exceeds attach_limit")
	}
}

func TestRotateWithAttachedPivotsAroundEntity(t *testing.T) {
	gs := newTestState(10, 10)
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1"}, nil, nil)
	b := gs.Things.Register(KindBlock, Position{5, 4}, nil, &Block{BlockType: "b0"}, nil) // north of e
	gs.Attach.Attach(e.ID, b.ID)

	if !gs.rotateWithAttached(e.ID, true) {
		t.Fatalf("rotate failed on an open grid")
	}
	if e.Pos != (Position{5, 5}) {
		t.Fatalf("pivot entity should not move: %v", e.Pos)
	}
	// R_cw(x,y) = (y,-x) applied to the north offset (0,-1) gives (-1,0): west.
	if b.Pos != (Position{4, 5}) {
		t.Fatalf("block did not follow R_cw(x,y)=(y,-x) around the pivot: %v", b.Pos)
	}
}

func TestRotateCwFourTimesIsIdentity(t *testing.T) {
	gs := newTestState(10, 10)
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1"}, nil, nil)
	b := gs.Things.Register(KindBlock, Position{5, 4}, nil, &Block{BlockType: "b0"}, nil)
	gs.Attach.Attach(e.ID, b.ID)

	start := b.Pos
	for i := 0; i < 4; i++ {
		if !gs.rotateWithAttached(e.ID, true) {
			t.Fatalf("rotation %d failed unexpectedly", i)
		}
	}
	if b.Pos != start {
		t.Fatalf("four clockwise rotations should be the identity: got %v, want %v", b.Pos, start)
	}
}

func TestRotateCwThenCcwIsIdentity(t *testing.T) {
	gs := newTestState(10, 10)
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1"}, nil, nil)
	b := gs.Things.Register(KindBlock, Position{5, 4}, nil, &Block{BlockType: "b0"}, nil)
	gs.Attach.Attach(e.ID, b.ID)

	start := b.Pos
	if !gs.rotateWithAttached(e.ID, true) {
		t.Fatalf("cw rotation failed")
	}
	if !gs.rotateWithAttached(e.ID, false) {
		t.Fatalf("ccw rotation failed")
	}
	if b.Pos != start {
		t.Fatalf("cw then ccw should be the identity: got %v, want %v", b.Pos, start)
	}
}
