// Package gpurender implements a GPU-accelerated, point-sprite candidate
// renderer, checked against internal/refrender's CPU ground truth by the
// accuracy harness.
package gpurender

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var renderLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	if os.Getenv("HYPERSCATTER_DEBUG_RENDER") == "1" {
		renderLogger = log.New(os.Stdout, "[gpurender] ", log.Ltime|log.Lmsgprefix)
	}
}

// floatsPerVertex is the vertex layout shared by every dynamicVBO in this
// package: position (vec2) + color (vec4), bound at attribute locations 0
// and 1.
const floatsPerVertex = 6

// Growth configuration for a dynamicVBO: a single growable allocation per
// layer, since a scatterplot layer (the base point cloud, the hover
// overlay, the lasso fill) only ever needs one contiguous range.
const (
	growthUtilThreshold = 0.9 // grow once usage crosses 90% of capacity
	growthFactor        = 2
	initialCapacity     = 4096 // vertices
)

// dynamicVBO is a single growable GPU vertex buffer: a VAO+VBO pair sized in
// vertices, doubled on demand when the caller asks for more than
// growthUtilThreshold of its current capacity.
type dynamicVBO struct {
	vao, vbo uint32
	capacity int // in vertices
	count    int // vertices currently valid (set by upload)

	growthEvents int
}

func newDynamicVBO() *dynamicVBO {
	d := &dynamicVBO{}
	d.allocate(initialCapacity)
	return d
}

func (d *dynamicVBO) allocate(capacity int) {
	if d.vao == 0 {
		gl.GenVertexArrays(1, &d.vao)
	}
	if d.vbo == 0 {
		gl.GenBuffers(1, &d.vbo)
	}
	gl.BindVertexArray(d.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, capacity*floatsPerVertex*4, nil, gl.DYNAMIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, floatsPerVertex*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, floatsPerVertex*4, gl.PtrOffset(2*4))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	d.capacity = capacity
}

// ensureCapacity grows the backing VBO (doubling, per growthFactor) until it
// can hold n vertices at no more than growthUtilThreshold utilization.
func (d *dynamicVBO) ensureCapacity(n int) {
	if float64(n) <= float64(d.capacity)*growthUtilThreshold {
		return
	}
	start := time.Now()
	newCap := d.capacity
	if newCap == 0 {
		newCap = initialCapacity
	}
	for float64(n) > float64(newCap)*growthUtilThreshold {
		newCap *= growthFactor
	}

	oldVAO, oldVBO := d.vao, d.vbo
	d.vao, d.vbo = 0, 0
	d.allocate(newCap)
	if oldVBO != 0 {
		gl.DeleteBuffers(1, &oldVBO)
	}
	if oldVAO != 0 {
		gl.DeleteVertexArrays(1, &oldVAO)
	}
	d.growthEvents++
	renderLogger.Printf("grew buffer to %d vertices in %s", newCap, time.Since(start))
}

// upload replaces the buffer's contents with vertices (each floatsPerVertex
// floats wide), growing the backing VBO first if needed.
func (d *dynamicVBO) upload(vertices []float32) error {
	if len(vertices)%floatsPerVertex != 0 {
		return fmt.Errorf("gpurender: vertex data must be a multiple of %d floats, got %d", floatsPerVertex, len(vertices))
	}
	n := len(vertices) / floatsPerVertex
	d.ensureCapacity(n)
	d.count = n
	if n == 0 {
		return nil
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(vertices)*4, gl.Ptr(vertices))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

func (d *dynamicVBO) drawPoints(pointSizeLoc int32, pointSize float32) {
	if d.count == 0 {
		return
	}
	gl.Uniform1f(pointSizeLoc, pointSize)
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(gl.POINTS, 0, int32(d.count))
	gl.BindVertexArray(0)
}

func (d *dynamicVBO) drawLines(mode uint32) {
	if d.count == 0 {
		return
	}
	gl.BindVertexArray(d.vao)
	gl.DrawArrays(mode, 0, int32(d.count))
	gl.BindVertexArray(0)
}

func (d *dynamicVBO) destroy() {
	if d.vbo != 0 {
		gl.DeleteBuffers(1, &d.vbo)
		d.vbo = 0
	}
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
	d.capacity, d.count = 0, 0
}
