package engine

import (
	"sort"
	"strconv"
)

// Task is a named block-pattern requirement with a deadline and reward.
// Requirements are offsets relative to the submitting entity's position.
type Task struct {
	Name         string
	DeadlineStep int
	Reward       int
	Completed    bool
	Requirements map[Position]string
}

// TaskRegistry owns every task ever created. Expired-but-incomplete tasks
// are never pruned (spec.md §9 open question): toPercept/Snapshot simply
// filter them out, so registry memory grows across a long match by design.
type TaskRegistry struct {
	tasks   map[string]*Task
	created int
}

func NewTaskRegistry() *TaskRegistry {
	return &TaskRegistry{tasks: map[string]*Task{}}
}

func (r *TaskRegistry) Get(name string) *Task {
	return r.tasks[name]
}

func (r *TaskRegistry) Count() int {
	return len(r.tasks)
}

// CreateRandom generates a fresh "task<N>" with a random-walk requirement
// pattern (spec.md §3) of the given size, using blockTypes, in the order
// given, as the pattern's vocabulary. Returns nil if size < 1.
func (r *TaskRegistry) CreateRandom(step, duration, size int, blockTypes []string, rng *RNG) *Task {
	if size < 1 || len(blockTypes) == 0 {
		return nil
	}
	name := "task" + strconv.Itoa(len(r.tasks))
	requirements := map[Position]string{}
	last := Position{0, 1}
	requirements[last] = blockTypes[rng.Intn(len(blockTypes))]
	for i := 0; i < size-1; i++ {
		index := rng.Intn(len(blockTypes))
		u := rng.Float64()
		switch {
		case u <= 0.3:
			last = last.Translate(-1, 0)
		case u <= 0.6:
			last = last.Translate(1, 0)
		default:
			last = last.Translate(0, 1)
		}
		requirements[last] = blockTypes[index]
	}
	t := &Task{Name: name, DeadlineStep: step + duration, Reward: len(requirements), Requirements: requirements}
	r.tasks[t.Name] = t
	r.created++
	return t
}

// CreateCustom registers a task with an explicit name and requirement
// pattern (used by the setup DSL's "create task" command). Returns nil if
// requirements is empty.
func (r *TaskRegistry) CreateCustom(step int, name string, duration int, requirements map[Position]string) *Task {
	if len(requirements) == 0 {
		return nil
	}
	t := &Task{Name: name, DeadlineStep: step + duration, Reward: len(requirements), Requirements: requirements}
	r.tasks[t.Name] = t
	return t
}

// Open returns every task that is neither completed nor past its deadline,
// sorted by name, for percept/snapshot assembly.
func (r *TaskRegistry) Open(step int) []*Task {
	out := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.Completed {
			continue
		}
		if step > t.DeadlineStep {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
