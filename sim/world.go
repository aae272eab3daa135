// Package sim provides a self-contained stand-in for the real game host:
// an ECS world of selectable units on a procedural battlefield, a
// raylib-backed host.Port for interactive runs, and a scripted port for
// headless ones.
package sim

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/battlecam/terrain"
)

// Position is a unit's world position on the battlefield plane.
type Position struct {
	X, Y float32
}

// Unit is the selectable-entity component.
type Unit struct {
	ID uint32

	// Radius is the pick radius in world units.
	Radius float32
}

// World is the battle simulation: units on a heightfield.
type World struct {
	ecs    *ecs.World
	mapper *ecs.Map2[Position, Unit]
	filter *ecs.Filter2[Position, Unit]

	field  *terrain.Heightfield
	nextID uint32
}

// NewWorld spawns count units at random positions inside the field extent.
func NewWorld(field *terrain.Heightfield, count int, seed int64) *World {
	world := ecs.NewWorld()
	w := &World{
		ecs:    world,
		mapper: ecs.NewMap2[Position, Unit](world),
		filter: ecs.NewFilter2[Position, Unit](world),
		field:  field,
	}

	rng := rand.New(rand.NewSource(seed))
	extent := field.Extent() * 0.9
	for i := 0; i < count; i++ {
		w.Spawn(
			(rng.Float32()*2-1)*extent,
			(rng.Float32()*2-1)*extent,
		)
	}
	return w
}

// Spawn adds one unit and returns its ID.
func (w *World) Spawn(x, y float32) uint32 {
	w.nextID++
	id := w.nextID
	w.mapper.NewEntity(
		&Position{X: x, Y: y},
		&Unit{ID: id, Radius: 8},
	)
	return id
}

// UnitAt returns the ID of the closest unit within pick radius of the
// world-space point, or ok == false.
func (w *World) UnitAt(x, y float32) (uint32, bool) {
	var best uint32
	bestDist := float32(-1)

	query := w.filter.Query()
	for query.Next() {
		pos, unit := query.Get()
		dx := pos.X - x
		dy := pos.Y - y
		d := dx*dx + dy*dy
		if d > unit.Radius*unit.Radius {
			continue
		}
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = unit.ID
		}
	}
	return best, bestDist >= 0
}

// UnitPosition returns the position of the unit with the given ID.
func (w *World) UnitPosition(id uint32) (Position, bool) {
	var found Position
	ok := false
	query := w.filter.Query()
	for query.Next() {
		pos, unit := query.Get()
		if unit.ID == id {
			found = *pos
			ok = true
		}
	}
	return found, ok
}

// Count returns the number of live units.
func (w *World) Count() int {
	n := 0
	query := w.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Each calls fn for every unit.
func (w *World) Each(fn func(pos Position, unit Unit)) {
	query := w.filter.Query()
	for query.Next() {
		pos, unit := query.Get()
		fn(*pos, *unit)
	}
}

// GroundAt returns the battlefield height under a point.
func (w *World) GroundAt(x, y float32) (float32, bool) {
	return w.field.Sample(x, y)
}

// Field returns the underlying heightfield, for rendering.
func (w *World) Field() *terrain.Heightfield {
	return w.field
}
