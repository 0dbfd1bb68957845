package engine

// Terrain is the static property of a grid cell.
type Terrain int

const (
	Empty Terrain = iota
	Obstacle
	Goal
)

func (t Terrain) String() string {
	switch t {
	case Empty:
		return "EMPTY"
	case Obstacle:
		return "OBSTACLE"
	case Goal:
		return "GOAL"
	default:
		return "EMPTY"
	}
}

// MarkerKind identifies a transient cell overlay. Currently only CLEAR
// (painted while a clear event is in its warning window, and by a clear
// action that has not yet detonated) exists.
type MarkerKind string

const MarkerClear MarkerKind = "CLEAR"

// TerrainProvider supplies the initial terrain for a cell. Bitmap decoding
// and config-file parsing that produce this callback live outside the
// engine (see internal/config); the engine only ever calls it during New.
type TerrainProvider func(x, y int) Terrain

// Grid is the fixed-size terrain/marker layer of the simulation. It does not
// track things (entities, blocks, dispensers) — that is the ThingStore's
// job — only static terrain and per-tick transient markers.
type Grid struct {
	width, height int
	cells         []Terrain
	markers       map[Position]map[MarkerKind]bool
}

func NewGrid(width, height int, terrain TerrainProvider) *Grid {
	g := &Grid{
		width:   width,
		height:  height,
		cells:   make([]Terrain, width*height),
		markers: map[Position]map[MarkerKind]bool{},
	}
	if terrain != nil {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				g.cells[y*width+x] = terrain(x, y)
			}
		}
	}
	return g
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

// TerrainAt returns EMPTY for any out-of-bounds read.
func (g *Grid) TerrainAt(p Position) Terrain {
	if !g.InBounds(p) {
		return Empty
	}
	return g.cells[p.Y*g.width+p.X]
}

// SetTerrain silently drops out-of-bounds writes.
func (g *Grid) SetTerrain(p Position, t Terrain) {
	if !g.InBounds(p) {
		return
	}
	g.cells[p.Y*g.width+p.X] = t
}

func (g *Grid) CreateMarker(p Position, kind MarkerKind) {
	if !g.InBounds(p) {
		return
	}
	set, ok := g.markers[p]
	if !ok {
		set = map[MarkerKind]bool{}
		g.markers[p] = set
	}
	set[kind] = true
}

// ClearMarkers removes every marker on the grid. Called at the top of every
// tick (prepareStep step 2).
func (g *Grid) ClearMarkers() {
	g.markers = map[Position]map[MarkerKind]bool{}
}

func (g *Grid) MarkersAt(p Position) []MarkerKind {
	set, ok := g.markers[p]
	if !ok {
		return nil
	}
	out := make([]MarkerKind, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
