package sim

import (
	"math"

	"github.com/pthm-cable/murmur/vec3"
)

// emptyCell marks a cell with no particles in the start-offset array.
const emptyCell = -1

// Grid is a uniform spatial index over a fixed 3D volume. Each rebuild
// bucket-sorts particle indices into cubical cells via a counting sort, so
// neighbor queries only touch the 3x3x3 cells around a point.
type Grid struct {
	cellSize float32
	cols     int // cells along x
	rows     int // cells along y
	layers   int // cells along z

	totalCells int

	// Parallel arrays. indices is a permutation of particle indices grouped
	// by cell; cellStart[c] is the offset of cell c's group (emptyCell if it
	// has none); cellCount[c] is the group length.
	indices   []int32
	cellStart []int32
	cellCount []int32
}

// NewGrid creates a grid covering width x height x depth with cubical cells
// of the given edge length, sized for at most maxParticles particles.
func NewGrid(width, height, depth, cellSize float32, maxParticles int) *Grid {
	cols := int(math.Ceil(float64(width / cellSize)))
	rows := int(math.Ceil(float64(height / cellSize)))
	layers := int(math.Ceil(float64(depth / cellSize)))
	total := cols * rows * layers

	return &Grid{
		cellSize:   cellSize,
		cols:       cols,
		rows:       rows,
		layers:     layers,
		totalCells: total,
		indices:    make([]int32, maxParticles),
		cellStart:  make([]int32, total),
		cellCount:  make([]int32, total),
	}
}

// CellSize returns the cell edge length.
func (g *Grid) CellSize() float32 { return g.cellSize }

// cellCoords maps a world position to integer cell coordinates. The
// division floors so slightly negative positions land in cell -1, not cell
// 0; callers bounds-check via cellIndex.
func (g *Grid) cellCoords(pos vec3.Vec3) (int, int, int) {
	return floorDiv(pos.X, g.cellSize), floorDiv(pos.Y, g.cellSize), floorDiv(pos.Z, g.cellSize)
}

func floorDiv(x, size float32) int {
	q := int(x / size)
	if x < 0 && float32(q)*size != x {
		q--
	}
	return q
}

// cellIndex flattens cell coordinates, returning emptyCell when any axis
// falls outside the grid.
func (g *Grid) cellIndex(x, y, z int) int {
	if x < 0 || x >= g.cols || y < 0 || y >= g.rows || z < 0 || z >= g.layers {
		return emptyCell
	}
	return x + y*g.cols + z*g.cols*g.rows
}

// Rebuild re-sorts all particles into cells from their current positions.
// O(N + totalCells). Particles outside the world volume map to no cell and
// are simply absent from every query until they wrap back in. Rebuilding
// twice without particle motion yields identical arrays.
func (g *Grid) Rebuild(particles []Particle) {
	for i := range g.cellCount {
		g.cellCount[i] = 0
		g.cellStart[i] = emptyCell
	}

	// Pass 1: count particles per cell.
	for i := range particles {
		cell := g.cellIndex(g.cellCoords(particles[i].Pos))
		if cell >= 0 {
			g.cellCount[cell]++
		}
	}

	// Prefix sum assigns each occupied cell its slice of the index array.
	offset := int32(0)
	for i := range g.cellCount {
		if g.cellCount[i] > 0 {
			g.cellStart[i] = offset
			offset += g.cellCount[i]
		}
	}

	// Pass 2: place indices, reusing cellCount as the per-cell cursor.
	for i := range g.cellCount {
		g.cellCount[i] = 0
	}
	for i := range particles {
		cell := g.cellIndex(g.cellCoords(particles[i].Pos))
		if cell >= 0 {
			g.indices[g.cellStart[cell]+g.cellCount[cell]] = int32(i)
			g.cellCount[cell]++
		}
	}
}

// QueryInto appends the indices of particles within radius of pos to dst
// and returns the extended slice. It scans the 27-cell cube around pos and
// stops once dst reaches its capacity, so dense regions truncate: callers
// trade completeness for a bounded per-query cost. The query can also miss
// true neighbors past one cell of distance, which is why cell size must
// cover the query radius. Results are deterministic for a fixed grid state.
//
// dst must have capacity; a zero-capacity slice returns empty. The same
// buffer is typically reused across calls, so earlier results are
// invalidated by the next query.
func (g *Grid) QueryInto(dst []int32, particles []Particle, pos vec3.Vec3, radius float32) []int32 {
	if cap(dst) == 0 {
		return dst
	}

	cx, cy, cz := g.cellCoords(pos)
	radiusSq := radius * radius

	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				cell := g.cellIndex(cx+dx, cy+dy, cz+dz)
				if cell < 0 {
					continue
				}
				start := g.cellStart[cell]
				if start == emptyCell {
					continue
				}
				for _, idx := range g.indices[start : start+g.cellCount[cell]] {
					if particles[idx].Pos.DistSq(pos) < radiusSq {
						dst = append(dst, idx)
						if len(dst) == cap(dst) {
							return dst
						}
					}
				}
			}
		}
	}

	return dst
}
