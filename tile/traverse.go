package tile

// BasicOpen is the single-tile step of the flood fill. A flagged or already
// open tile is a no-op. Otherwise the tile is uncovered, and the returned
// frontier holds every neighbor to examine next: all of them when the tile
// is a zero, or, with bfs enabled, when its value equals its current
// neighbor flag count (chord-while-opening). Tiles in the frontier that are
// already open or flagged are filtered later by their own BasicOpen.
func (t *Tile) BasicOpen(bfs bool) (bool, []*Tile) {
	if t.Flagged || !t.Covered {
		return false, nil
	}
	t.Covered = false
	if t.Value == 0 || (bfs && t.Value == t.NeighborFlags) {
		return true, t.neighbors
	}
	return true, nil
}

// Open reveals from the receiver with a breadth-first traversal and returns
// every tile that changed. There is no separate visited set: a tile opens at
// most once, so "already open" dedupes revisits. The queue can therefore
// carry duplicates, but total dequeues stay bounded by grid size times the
// neighbor fan-out.
func (t *Tile) Open(bfs bool) Set {
	return t.open(bfs, false)
}

// OpenTrace runs Open but returns every tile examined rather than every
// tile changed. Test introspection only.
func (t *Tile) OpenTrace(bfs bool) Set {
	return t.open(bfs, true)
}

func (t *Tile) open(bfs, trace bool) Set {
	queue := []*Tile{t}
	changed := NewSet()
	examined := NewSet()
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		effective, frontier := cur.BasicOpen(bfs)
		queue = append(queue, frontier...)
		if trace {
			examined.Put(cur)
		}
		if effective {
			changed.Put(cur)
		}
	}
	if trace {
		return examined
	}
	return changed
}

// Double chords: when the tile is open and its value equals its neighbor
// flag count, every neighbor is opened and the changed sets are unioned.
// Anything else is a no-op with an empty set.
func (t *Tile) Double(bfs bool) Set {
	changed := NewSet()
	if t.Covered || t.Value != t.NeighborFlags {
		return changed
	}
	for _, n := range t.neighbors {
		n.Open(bfs).Each(func(c *Tile) {
			changed.Put(c)
		})
	}
	return changed
}
