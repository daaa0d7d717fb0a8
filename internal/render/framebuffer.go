package render

import (
	"sync"

	"elementals/internal/board"
	"elementals/internal/core"
)

// FrameBuffer is a render sink that keeps the pixels and statistics of the
// latest frame. Frames are written by the tick goroutine and read by the
// drawing code, which may run elsewhere.
type FrameBuffer struct {
	mu     sync.Mutex
	size   core.Coordinate
	pix    []byte
	counts []board.Occupancy
	tick   uint64
	frames int
}

// NewFrameBuffer allocates a buffer for a board of the given size.
func NewFrameBuffer(size core.Coordinate) *FrameBuffer {
	return &FrameBuffer{size: size, pix: make([]byte, 4*size.X*size.Y)}
}

// Valid reports whether fb can receive frames.
func (fb *FrameBuffer) Valid() bool { return fb != nil }

// RenderFrame implements board.RenderSink.
func (fb *FrameBuffer) RenderFrame(f board.Frame) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if f.Size != fb.size {
		fb.size = f.Size
		fb.pix = make([]byte, 4*f.Size.X*f.Size.Y)
	}
	fillEntityRGBA(fb.pix, f.Cells, core.Black)
	fb.counts = append(fb.counts[:0], f.Counts...)
	fb.tick = f.Tick
	fb.frames++
}

// Size returns the board size of the last frame.
func (fb *FrameBuffer) Size() core.Coordinate {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.size
}

// CopyPixels copies the RGBA pixels of the last frame into dst, growing it as
// needed, and returns it.
func (fb *FrameBuffer) CopyPixels(dst []byte) []byte {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if cap(dst) < len(fb.pix) {
		dst = make([]byte, len(fb.pix))
	}
	dst = dst[:len(fb.pix)]
	copy(dst, fb.pix)
	return dst
}

// Counts returns the occupancy of the last frame.
func (fb *FrameBuffer) Counts() []board.Occupancy {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]board.Occupancy(nil), fb.counts...)
}

// Tick returns the tick number of the last frame.
func (fb *FrameBuffer) Tick() uint64 {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.tick
}

// Frames counts the frames received.
func (fb *FrameBuffer) Frames() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.frames
}
