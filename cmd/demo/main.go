// Command demo wires the library end-to-end: a GLFW/GL window, a synthetic
// dataset, a renderer (reference or GPU candidate, either geometry), and
// the interaction controller. It deliberately does the minimum needed to
// prove the pieces fit together — no UI chrome, no asset pipeline, no dev
// server.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/HackerRoomAI/hyper-scatter/internal/dataset"
	"github.com/HackerRoomAI/hyper-scatter/internal/geom"
	"github.com/HackerRoomAI/hyper-scatter/internal/interaction"
	"github.com/HackerRoomAI/hyper-scatter/internal/renderer"

	_ "github.com/HackerRoomAI/hyper-scatter/internal/gpurender"
	_ "github.com/HackerRoomAI/hyper-scatter/internal/refrender"
)

const logFlags = log.Ltime | log.Lshortfile

var runtimeLogger *log.Logger = log.New(io.Discard, "", 0)

func init() {
	// OpenGL contexts are tied to specific OS threads - let's pin to just one.
	runtime.LockOSThread()
	log.SetFlags(logFlags)

	if os.Getenv("HYPERSCATTER_DEBUG_RUNTIME") == "1" {
		runtimeLogger = log.New(os.Stdout, "[runtime] ", log.Ltime|log.Lmsgprefix)
	}
}

var (
	flagGeometry = flag.String("geometry", "euclidean", "euclidean or poincare")
	flagBackend  = flag.String("backend", "candidate", "reference or candidate")
	flagPoints   = flag.Int("points", 50_000, "number of synthetic points to generate")
)

func makeTitle(fps, avgFrameTimeMs float64, n int, geometry renderer.Geometry, backend string) string {
	return fmt.Sprintf("hyper-scatter (%.1f FPS, %.2fms/frame, %d points, %s/%s)",
		fps, avgFrameTimeMs, n, geometry, backend)
}

func main() {
	flag.Parse()

	geometry, err := parseGeometry(*flagGeometry)
	if err != nil {
		log.Fatal(err)
	}
	backend, err := parseBackend(*flagBackend)
	if err != nil {
		log.Fatal(err)
	}

	if err := glfw.Init(); err != nil {
		log.Fatalf("Failed to initialize GLFW: %v", err)
	}
	defer glfw.Terminate()

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)

	window, err := glfw.CreateWindow(1280, 960, "hyper-scatter", nil, nil)
	if err != nil {
		log.Fatalf("Failed to create window: %v", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		log.Fatalf("Failed to initialize OpenGL: %v", err)
	}

	s := seed()
	ds := generateDemoDataset(geometry, *flagPoints, s)

	cw, ch := window.GetFramebufferSize()
	r, err := renderer.New(geometry, backend)
	if err != nil {
		log.Fatalf("Failed to construct renderer: %v", err)
	}
	if err := r.Init(windowSurface{window}, renderer.InitOptions{
		Width: cw, Height: ch, DevicePixelRatio: 1, PointRadius: 3,
	}); err != nil {
		log.Fatalf("Failed to init renderer: %v", err)
	}
	if err := r.SetDataset(ds); err != nil {
		log.Fatalf("Failed to set dataset: %v", err)
	}
	if geometry == renderer.GeometryPoincare {
		_ = r.SetView(geom.NewPoincareView())
	} else {
		_ = r.SetView(geom.NewEuclideanView())
	}

	controller := interaction.NewController(r)
	controller.OnLassoComplete = func(result interaction.LassoResult) {
		runtimeLogger.Printf("lasso complete: %d raw points, %d simplified", len(result.Raw)/2, len(result.Simplified)/2)
	}

	wireCallbacks(window, controller)

	frameCount, frameTimeSum := 0, 0.0
	lastFPSUpdate := time.Now()

	for !window.ShouldClose() {
		frameStart := time.Now()

		if err := controller.Tick(); err != nil {
			log.Fatalf("controller tick: %v", err)
		}
		window.SwapBuffers()
		glfw.PollEvents()

		frameTime := time.Since(frameStart).Seconds() * 1000.0
		frameTimeSum += frameTime
		frameCount++

		now := time.Now()
		if now.Sub(lastFPSUpdate) >= time.Second {
			fps := float64(frameCount) / now.Sub(lastFPSUpdate).Seconds()
			avgFrameTime := frameTimeSum / float64(frameCount)
			frameCount, frameTimeSum = 0, 0.0
			lastFPSUpdate = now

			window.SetTitle(makeTitle(fps, avgFrameTime, ds.N, geometry, *flagBackend))
			runtimeLogger.Printf("%.1f FPS, %.2f ms/frame", fps, avgFrameTime)
		}
	}
}

type windowSurface struct{ w *glfw.Window }

func (s windowSurface) Size() (int, int) { return s.w.GetFramebufferSize() }

func parseGeometry(s string) (renderer.Geometry, error) {
	switch s {
	case "euclidean":
		return renderer.GeometryEuclidean, nil
	case "poincare":
		return renderer.GeometryPoincare, nil
	default:
		return 0, fmt.Errorf("unknown geometry %q (want euclidean or poincare)", s)
	}
}

func parseBackend(s string) (renderer.Backend, error) {
	switch s {
	case "reference":
		return renderer.Reference, nil
	case "candidate":
		return renderer.Candidate, nil
	default:
		return 0, fmt.Errorf("unknown backend %q (want reference or candidate)", s)
	}
}

func seed() int64 {
	seedStr := os.Getenv("HYPERSCATTER_SEED")
	now := time.Now().Unix()
	if seedStr == "" {
		return now
	}
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		log.Fatalf("Invalid HYPERSCATTER_SEED value '%s': %v", seedStr, err)
	}
	return seed
}

func geometryToDataset(g renderer.Geometry) dataset.Geometry {
	if g == renderer.GeometryPoincare {
		return dataset.Poincare
	}
	return dataset.Euclidean
}
