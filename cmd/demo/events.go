package main

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/HackerRoomAI/hyper-scatter/internal/interaction"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"
)

// demoEvents adapts GLFW callbacks into interaction.Controller calls:
// callbacks only ever write into the controller's pending buffers, and
// Tick (driven by main's loop, standing in for an animation-frame
// callback) is the only place renderer state actually changes.
type demoEvents struct {
	controller *interaction.Controller
	window     *glfw.Window

	lastMouseX, lastMouseY float64
	dragging               bool
}

func wireCallbacks(window *glfw.Window, controller *interaction.Controller) {
	e := &demoEvents{controller: controller, window: window}

	window.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		e.handleMouseButton(button, action, mods)
	})
	window.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		e.handleCursorPos(xpos, ypos)
	})
	window.SetScrollCallback(func(_ *glfw.Window, _, deltaY float64) {
		e.handleScroll(deltaY)
	})
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, newW, newH int) {
		controller.Resize(newW, newH)
	})
}

func toModifiers(mods glfw.ModifierKey) renderer.Modifiers {
	return renderer.Modifiers{
		Shift: mods&glfw.ModShift != 0,
		Ctrl:  mods&glfw.ModControl != 0,
		Alt:   mods&glfw.ModAlt != 0,
		Meta:  mods&glfw.ModSuper != 0,
	}
}

func (e *demoEvents) handleMouseButton(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		e.dragging = true
		e.controller.PointerDown(e.lastMouseX, e.lastMouseY, toModifiers(mods))
	case glfw.Release:
		e.dragging = false
		e.controller.PointerUp()
	}
}

func (e *demoEvents) handleCursorPos(xpos, ypos float64) {
	scaleX, scaleY := e.window.GetContentScale()
	sx, sy := xpos*float64(scaleX), ypos*float64(scaleY)

	dx, dy := sx-e.lastMouseX, sy-e.lastMouseY
	e.lastMouseX, e.lastMouseY = sx, sy

	if e.dragging {
		e.controller.PointerMove(sx, sy, dx, dy)
		return
	}

	// Idle-mode hover: a naive per-frame-equivalent hit test. The
	// controller itself debounces/suppresses delivery, so it's safe to
	// call this on every cursor-pos callback.
	hit, _ := e.controller.Renderer().HitTest(sx, sy)
	if hit != nil {
		e.controller.Hover(hit.Index)
	} else {
		e.controller.Hover(-1)
	}
}

func (e *demoEvents) handleScroll(deltaY float64) {
	e.controller.Wheel(deltaY, e.lastMouseX, e.lastMouseY, renderer.Modifiers{})
}
