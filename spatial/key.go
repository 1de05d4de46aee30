package spatial

// Scheme names the partition topology a Level's chunks are cut with.
type Scheme uint8

const (
	// SchemeGrid2D cuts the level into a uniform 2D grid of cells.
	SchemeGrid2D Scheme = iota
	// SchemeGrid3D cuts the level into a uniform 3D grid of cells.
	SchemeGrid3D
	// SchemeQuadtree cuts the level into a depth-indexed quadtree.
	SchemeQuadtree
	// SchemeOctree cuts the level into a depth-indexed octree.
	SchemeOctree
)

// ChunkKey identifies one partition cell: which level, which scheme, at
// what depth, which cell (Code, a Morton code of the cell coordinates),
// and which generation. Generation increments every time the chunk is torn
// down and rebuilt (a world streaming reset), so a key captured before a
// reset is detectably stale, the same way a stale entity or resource
// handle is.
type ChunkKey struct {
	LevelID    uint32
	Scheme     Scheme
	Depth      uint8
	Code       uint64
	Generation uint32
}

// SameCell reports whether k and other name the same partition cell,
// ignoring generation.
func (k ChunkKey) SameCell(other ChunkKey) bool {
	return k.LevelID == other.LevelID && k.Scheme == other.Scheme &&
		k.Depth == other.Depth && k.Code == other.Code
}

// part1by1 spreads the low 16 bits of x across the even bit positions of a
// 32-bit result, leaving the odd positions zero, so two spread values can
// be OR'd together (the second shifted left by one) to interleave them.
func part1by1(x uint32) uint32 {
	x &= 0x0000ffff
	x = (x | (x << 8)) & 0x00ff00ff
	x = (x | (x << 4)) & 0x0f0f0f0f
	x = (x | (x << 2)) & 0x33333333
	x = (x | (x << 1)) & 0x55555555
	return x
}

// part1by2 spreads the low 10 bits of x across every third bit position,
// the 3D analogue of part1by1.
func part1by2(x uint32) uint32 {
	x &= 0x000003ff
	x = (x | (x << 16)) & 0xff0000ff
	x = (x | (x << 8)) & 0x0300f00f
	x = (x | (x << 4)) & 0x030c30c3
	x = (x | (x << 2)) & 0x09249249
	return x
}

// MortonEncode2D interleaves the bits of x and y into a single Z-order
// curve code, used as ChunkKey.Code for Grid2D and Quadtree cells.
func MortonEncode2D(x, y uint32) uint64 {
	return uint64(part1by1(x) | (part1by1(y) << 1))
}

// MortonDecode2D is the inverse of MortonEncode2D.
func MortonDecode2D(code uint64) (x, y uint32) {
	return compact1by1(uint32(code)), compact1by1(uint32(code >> 1))
}

func compact1by1(x uint32) uint32 {
	x &= 0x55555555
	x = (x | (x >> 1)) & 0x33333333
	x = (x | (x >> 2)) & 0x0f0f0f0f
	x = (x | (x >> 4)) & 0x00ff00ff
	x = (x | (x >> 8)) & 0x0000ffff
	return x
}

// MortonEncode3D interleaves the bits of x, y, and z into a single Z-order
// curve code, used as ChunkKey.Code for Grid3D and Octree cells.
func MortonEncode3D(x, y, z uint32) uint64 {
	return uint64(part1by2(x) | (part1by2(y) << 1) | (part1by2(z) << 2))
}

// MortonDecode3D is the inverse of MortonEncode3D.
func MortonDecode3D(code uint64) (x, y, z uint32) {
	return compact1by2(uint32(code)), compact1by2(uint32(code >> 1)), compact1by2(uint32(code >> 2))
}

func compact1by2(x uint32) uint32 {
	x &= 0x09249249
	x = (x | (x >> 2)) & 0x030c30c3
	x = (x | (x >> 4)) & 0x0300f00f
	x = (x | (x >> 8)) & 0xff0000ff
	x = (x | (x >> 16)) & 0x000003ff
	return x
}
