package engine

import "testing"

func TestHandleRequestCreatesBlockFromDispenser(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Config.ClearEnergyCost = 5
	e := gs.Things.Register(KindEntity, Position{2, 3}, &Entity{AgentName: "a1", Energy: 100}, nil, nil)
	gs.Things.Register(KindDispenser, Position{3, 3}, nil, nil, &Dispenser{BlockType: "b0"})

	code := gs.handleRequest(e, []string{"e"})
	if code != Success {
		t.Fatalf("handleRequest = %s, want success", code)
	}
	at := gs.Things.ThingsAt(Position{3, 3})
	var foundBlock bool
	for _, occ := range at {
		if occ.Kind == KindBlock && occ.Block.BlockType == "b0" {
			foundBlock = true
		}
	}
	if !foundBlock {
		t.Fatalf("expected a b0 block at (3,3) after request")
	}
}

func TestHandleRequestFailsWithoutDispenser(t *testing.T) {
	gs := newTestState(10, 10)
	e := gs.Things.Register(KindEntity, Position{2, 3}, &Entity{AgentName: "a1"}, nil, nil)

	if code := gs.handleRequest(e, []string{"e"}); code != FailedTarget {
		t.Fatalf("handleRequest with no dispenser = %s, want F_TARGET", code)
	}
}

func TestHandleSubmitCompletesTaskAndScores(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Teams = map[string]*Team{"teamA": {Name: "teamA"}}
	gs.Tasks = NewTaskRegistry()
	gs.Grid.SetTerrain(Position{5, 5}, Goal)

	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1", TeamName: "teamA"}, nil, nil)
	block := gs.Things.Register(KindBlock, Position{5, 6}, nil, &Block{BlockType: "b0"}, nil)
	gs.Attach.Attach(e.ID, block.ID)

	task := gs.Tasks.CreateCustom(1, "t1", 100, map[Position]string{{0, 1}: "b0"})

	code := gs.handleSubmit(e, []string{task.Name})
	if code != Success {
		t.Fatalf("handleSubmit = %s, want success", code)
	}
	if !task.Completed {
		t.Fatalf("task should be marked completed")
	}
	if gs.Teams["teamA"].Score != task.Reward {
		t.Fatalf("team score = %d, want %d", gs.Teams["teamA"].Score, task.Reward)
	}
	if gs.Things.ByID(block.ID) != nil {
		t.Fatalf("matched block should be consumed on submit")
	}
}

func TestHandleSubmitFailsOffGoalCell(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Teams = map[string]*Team{"teamA": {Name: "teamA"}}
	gs.Tasks = NewTaskRegistry()
	// (5,5) is left EMPTY, not GOAL.
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1", TeamName: "teamA"}, nil, nil)
	task := gs.Tasks.CreateCustom(1, "t1", 100, map[Position]string{{0, 0}: "b0"})

	if code := gs.handleSubmit(e, []string{task.Name}); code != FailedTarget {
		t.Fatalf("submit off a GOAL cell = %s, want F_TARGET", code)
	}
}

func TestHandleClearBuildsCounterThenDetonates(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Config.ClearEnergyCost = 1
	gs.Config.ClearSteps = 2
	gs.Grid.SetTerrain(Position{6, 5}, Obstacle)

	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1", Energy: 10, Vision: 5}, nil, nil)

	gs.Step = 1
	if code := gs.handleClear(e, []string{"1", "0"}); code != Success {
		t.Fatalf("first clear = %s, want success (marker painted)", code)
	}
	if gs.Grid.TerrainAt(Position{6, 5}) != Obstacle {
		t.Fatalf("obstacle should still stand after only one clear attempt")
	}
	if e.Entity.Energy != 10 {
		t.Fatalf("energy should not be spent on a non-detonating clear attempt, got %d", e.Entity.Energy)
	}
	for _, p := range Area(Position{6, 5}, 1) {
		found := false
		for _, m := range gs.Grid.MarkersAt(p) {
			if m == MarkerClear {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected a CLEAR marker at %v after a non-detonating attempt", p)
		}
	}

	gs.Step = 2
	if code := gs.handleClear(e, []string{"1", "0"}); code != Success {
		t.Fatalf("second clear = %s, want success (detonation)", code)
	}
	if gs.Grid.TerrainAt(Position{6, 5}) != Empty {
		t.Fatalf("obstacle should be cleared after clear_steps consecutive attempts")
	}
	if e.Entity.Energy != 9 {
		t.Fatalf("energy should be spent only on detonation, got %d, want 9", e.Entity.Energy)
	}
}

func TestHandleClearFailsWithoutEnoughEnergy(t *testing.T) {
	gs := newTestState(10, 10)
	gs.Config.ClearEnergyCost = 50
	e := gs.Things.Register(KindEntity, Position{5, 5}, &Entity{AgentName: "a1", Energy: 10, Vision: 5}, nil, nil)

	if code := gs.handleClear(e, []string{"1", "0"}); code != FailedStatus {
		t.Fatalf("clear without enough energy = %s, want F_STATUS", code)
	}
}
