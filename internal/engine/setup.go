package engine

import (
	"strconv"
	"strings"
)

// runSetup interprets the whitespace-separated setup DSL (spec.md §6) once,
// in order, against a freshly constructed GameState. A parse error on a
// line is logged and that line is skipped; it never aborts the run
// (spec.md §7).
func (gs *GameState) runSetup(lines []string) {
	for _, line := range lines {
		gs.runSetupLine(line)
	}
}

func (gs *GameState) runSetupLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	var err error
	switch fields[0] {
	case "move":
		err = gs.setupMove(fields[1:])
	case "add":
		err = gs.setupAdd(fields[1:])
	case "create":
		err = gs.setupCreateTask(fields[1:])
	case "attach":
		err = gs.setupAttach(fields[1:])
	default:
		err = errUnknownCommand
	}
	if err != nil {
		gs.logf("setup: skipping line %q: %v", line, err)
	}
}

var (
	errUnknownCommand = setupError("unknown command")
	errBadArgs        = setupError("wrong number of arguments")
	errBadInt         = setupError("expected integer")
	errUnknownAgent   = setupError("unknown agent")
	errUnknownKind    = setupError("expected block or dispenser")
	errBadRequirement = setupError("malformed requirement")
	errNoTarget       = setupError("no attachable thing at position")
	errBlocked        = setupError("target cell is blocked")
)

type setupError string

func (e setupError) Error() string { return string(e) }

func atoiOrErr(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errBadInt
	}
	return n, nil
}

// move <x> <y> <agent>
func (gs *GameState) setupMove(args []string) error {
	if len(args) != 3 {
		return errBadArgs
	}
	x, err := atoiOrErr(args[0])
	if err != nil {
		return err
	}
	y, err := atoiOrErr(args[1])
	if err != nil {
		return err
	}
	t := gs.entityThing(args[2])
	if t == nil {
		return errUnknownAgent
	}
	if !gs.moveWithoutAttachments(t.ID, Position{X: x, Y: y}) {
		return errBlocked
	}
	return nil
}

// add <x> <y> block|dispenser <type>
func (gs *GameState) setupAdd(args []string) error {
	if len(args) != 4 {
		return errBadArgs
	}
	x, err := atoiOrErr(args[0])
	if err != nil {
		return err
	}
	y, err := atoiOrErr(args[1])
	if err != nil {
		return err
	}
	pos := Position{X: x, Y: y}
	switch args[2] {
	case "block":
		gs.Things.Register(KindBlock, pos, nil, &Block{BlockType: args[3]}, nil)
	case "dispenser":
		gs.Things.Register(KindDispenser, pos, nil, nil, &Dispenser{BlockType: args[3]})
	default:
		return errUnknownKind
	}
	return nil
}

// create task <name> <duration> <x,y,type>[;<x,y,type>]*
func (gs *GameState) setupCreateTask(args []string) error {
	if len(args) != 4 || args[0] != "task" {
		return errBadArgs
	}
	name := args[1]
	duration, err := atoiOrErr(args[2])
	if err != nil {
		return err
	}
	requirements := map[Position]string{}
	for _, group := range strings.Split(args[3], ";") {
		parts := strings.Split(group, ",")
		if len(parts) != 3 {
			return errBadRequirement
		}
		x, err := atoiOrErr(parts[0])
		if err != nil {
			return errBadRequirement
		}
		y, err := atoiOrErr(parts[1])
		if err != nil {
			return errBadRequirement
		}
		requirements[Position{X: x, Y: y}] = parts[2]
	}
	gs.Tasks.CreateCustom(gs.Step, name, duration, requirements)
	return nil
}

// attach <x1> <y1> <x2> <y2>
func (gs *GameState) setupAttach(args []string) error {
	if len(args) != 4 {
		return errBadArgs
	}
	coords := make([]int, 4)
	for i, a := range args {
		v, err := atoiOrErr(a)
		if err != nil {
			return err
		}
		coords[i] = v
	}
	a, ok := gs.Things.UniqueAttachableAt(Position{X: coords[0], Y: coords[1]})
	if !ok {
		return errNoTarget
	}
	b, ok := gs.Things.UniqueAttachableAt(Position{X: coords[2], Y: coords[3]})
	if !ok {
		return errNoTarget
	}
	gs.Attach.Attach(a.ID, b.ID)
	return nil
}
