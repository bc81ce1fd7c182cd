package placement

import "github.com/Faultbox/geoar/pkg/geo"

type queued struct {
	name string
	tile geo.TileID
}

// Queue is the FIFO of objects waiting to be placed under a tile. A name is
// queued at most once.
type Queue struct {
	entries []queued
	names   map[string]struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{names: make(map[string]struct{})}
}

// Push appends name with its target tile. Returns false if name is already
// queued.
func (q *Queue) Push(name string, tile geo.TileID) bool {
	if _, ok := q.names[name]; ok {
		return false
	}
	q.entries = append(q.entries, queued{name: name, tile: tile})
	q.names[name] = struct{}{}
	return true
}

// Pop removes and returns the oldest entry.
func (q *Queue) Pop() (string, geo.TileID, bool) {
	if len(q.entries) == 0 {
		return "", geo.TileID{}, false
	}
	e := q.entries[0]
	q.entries[0] = queued{}
	q.entries = q.entries[1:]
	delete(q.names, e.name)
	return e.name, e.tile, true
}

// Remove drops name from the queue.
func (q *Queue) Remove(name string) bool {
	if _, ok := q.names[name]; !ok {
		return false
	}
	q.filter(func(e queued) bool { return e.name != name })
	return true
}

// DropTile drops every entry targeting tile and returns how many were dropped.
func (q *Queue) DropTile(tile geo.TileID) int {
	before := len(q.entries)
	q.filter(func(e queued) bool { return e.tile != tile })
	return before - len(q.entries)
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.entries = nil
	clear(q.names)
}

// Contains reports whether name is queued.
func (q *Queue) Contains(name string) bool {
	_, ok := q.names[name]
	return ok
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.entries)
}

func (q *Queue) filter(keep func(queued) bool) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if keep(e) {
			kept = append(kept, e)
		} else {
			delete(q.names, e.name)
		}
	}
	for i := len(kept); i < len(q.entries); i++ {
		q.entries[i] = queued{}
	}
	q.entries = kept
}
