package engine

import "testing"

func TestCreateCustomRejectsEmptyRequirements(t *testing.T) {
	r := NewTaskRegistry()
	if got := r.CreateCustom(1, "t1", 10, nil); got != nil {
		t.Fatalf("CreateCustom with no requirements should return nil, got %+v", got)
	}
	if r.Count() != 0 {
		t.Fatalf("registry should not grow on a rejected task")
	}
}

func TestCreateCustomRewardEqualsRequirementCount(t *testing.T) {
	r := NewTaskRegistry()
	reqs := map[Position]string{{0, 0}: "b0", {1, 0}: "b1"}
	task := r.CreateCustom(1, "t1", 10, reqs)
	if task.Reward != 2 {
		t.Fatalf("reward = %d, want 2 (one per requirement cell)", task.Reward)
	}
	if task.DeadlineStep != 11 {
		t.Fatalf("deadline = %d, want step+duration = 11", task.DeadlineStep)
	}
}

func TestOpenExcludesCompletedAndExpired(t *testing.T) {
	r := NewTaskRegistry()
	r.CreateCustom(1, "completed", 100, map[Position]string{{0, 0}: "b0"})
	r.Get("completed").Completed = true

	r.CreateCustom(1, "expired", 5, map[Position]string{{0, 0}: "b0"}) // deadline=6
	r.CreateCustom(1, "alive", 100, map[Position]string{{0, 0}: "b0"}) // deadline=101

	open := r.Open(50)
	if len(open) != 1 || open[0].Name != "alive" {
		t.Fatalf("Open(50) = %v, want only [alive]", open)
	}
}

func TestOpenSortedByName(t *testing.T) {
	r := NewTaskRegistry()
	r.CreateCustom(1, "zeta", 100, map[Position]string{{0, 0}: "b0"})
	r.CreateCustom(1, "alpha", 100, map[Position]string{{0, 0}: "b0"})

	open := r.Open(1)
	if len(open) != 2 || open[0].Name != "alpha" || open[1].Name != "zeta" {
		t.Fatalf("Open should sort by name, got %v, %v", open[0].Name, open[1].Name)
	}
}

func TestCreateRandomRejectsZeroSize(t *testing.T) {
	r := NewTaskRegistry()
	rng := NewRNG(1)
	if got := r.CreateRandom(1, 10, 0, []string{"b0"}, rng); got != nil {
		t.Fatalf("CreateRandom with size 0 should return nil")
	}
}

func TestCreateRandomProducesAtMostSizeCells(t *testing.T) {
	r := NewTaskRegistry()
	rng := NewRNG(7)
	task := r.CreateRandom(1, 10, 4, []string{"b0", "b1"}, rng)
	if task == nil {
		t.Fatalf("CreateRandom unexpectedly returned nil")
	}
	if len(task.Requirements) < 1 || len(task.Requirements) > 4 {
		t.Fatalf("requirement count = %d, want between 1 and size=4 (random walk can revisit cells)", len(task.Requirements))
	}
}
