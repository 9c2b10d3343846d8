// Package delay provides the ring-buffer delay line shared by every
// delay-based effect.
package delay

import (
	"fmt"
	"math"
)

// interpolationMargin is the headroom added by NewForDelay beyond the
// longest requested delay.
const interpolationMargin = 4

// Line is a circular delay line.
//
// Read addresses samples relative to the write cursor: called before the next
// Write, Read(d) returns the input written d samples ago, so Read(1) is the
// most recent sample and Read(Len()) the oldest one still held.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// NewForDelay returns a line able to serve fractional reads up to
// maxDelaySamples, sized ceil(maxDelaySamples) plus an interpolation margin.
func NewForDelay(maxDelaySamples float64) (*Line, error) {
	if maxDelaySamples < 0 || math.IsNaN(maxDelaySamples) || math.IsInf(maxDelaySamples, 0) {
		return nil, fmt.Errorf("delay length must be >= 0 and finite: %f", maxDelaySamples)
	}
	return New(int(math.Ceil(maxDelaySamples)) + interpolationMargin)
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample and advances the cursor.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	readPos := (d.writePos - delay%size + size) % size
	return d.buffer[readPos]
}

// ReadLinear reads a fractional delay, splitting amplitude linearly between
// the two neighbouring integer taps. The delay is clamped to [1, Len()-1].
func (d *Line) ReadLinear(delay float64) float64 {
	maxDelay := float64(len(d.buffer) - 1)
	if delay < 1 {
		delay = 1
	}
	if delay > maxDelay {
		delay = maxDelay
	}

	p := int(delay)
	t := delay - float64(p)
	if t == 0 {
		return d.Read(p)
	}

	return (1-t)*d.Read(p) + t*d.Read(p+1)
}

// WriteBlock writes src in order, advancing the cursor by len(src).
func (d *Line) WriteBlock(src []float64) {
	size := len(d.buffer)
	for len(src) > 0 {
		n := copy(d.buffer[d.writePos:], src)
		src = src[n:]
		d.writePos += n
		if d.writePos >= size {
			d.writePos = 0
		}
	}
}

// ReadBlock fills dst with consecutive samples starting delay samples behind
// the cursor, so dst[0] == Read(delay) and dst[j] == Read(delay-j).
// delay must not exceed Len().
func (d *Line) ReadBlock(dst []float64, delay int) {
	size := len(d.buffer)
	pos := (d.writePos - delay%size + size) % size
	for len(dst) > 0 {
		n := copy(dst, d.buffer[pos:])
		dst = dst[n:]
		pos = 0
	}
}

// Reset clears line state.
func (d *Line) Reset() {
	clear(d.buffer)
	d.writePos = 0
}
