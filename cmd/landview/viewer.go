package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/landscape/internal/config"
	"github.com/Faultbox/landscape/internal/engine/camera"
	"github.com/Faultbox/landscape/internal/engine/renderer"
	"github.com/Faultbox/landscape/internal/engine/window"
	"github.com/Faultbox/landscape/internal/hotreload"
	"github.com/Faultbox/landscape/internal/landscape"
	"github.com/Faultbox/landscape/internal/logger"
	"github.com/Faultbox/landscape/pkg/heightmap"
)

// moveSpeed scales keyboard panning; the camera further scales it by distance.
const moveSpeed = 60

type viewer struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	land     *landscape.Landscape
	cam      *camera.OrbitCamera

	watcher *hotreload.Watcher
	cancel  context.CancelFunc

	events  []window.Event
	running bool
}

func newViewer(cfg *config.Config) (*viewer, error) {
	v := &viewer{
		cfg: cfg,
		log: logger.Named("viewer"),
	}

	opts, err := cfg.Landscape.Options()
	if err != nil {
		return nil, err
	}

	v.window, err = window.New(window.Config{
		Title:      "landview",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// the GL context must exist before the renderer
	width, height := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: [3]float32{0.55, 0.68, 0.82},
		Wireframe:  cfg.Window.Wireframe,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	v.land = landscape.New(v.renderer, opts)
	if err := v.loadLandscape(); err != nil {
		v.Close()
		return nil, err
	}

	v.cam = camera.NewOrbitCamera()
	v.cam.DragSensitivity = cfg.Camera.DragSensitivity
	v.cam.ZoomSensitivity = cfg.Camera.ZoomSensitivity
	v.cam.Near = cfg.Camera.Near
	v.cam.Far = cfg.Camera.Far
	v.cam.NormalFOV = cfg.Landscape.FOV.Normal
	v.cam.ZoomFOV = cfg.Landscape.FOV.Zoom
	v.cam.SetViewport(width, height)
	v.cam.FitToBounds(v.land.BoundingBox())

	if cfg.Watch.Enabled {
		if err := v.startWatcher(); err != nil {
			// the viewer is still usable without hot reload
			v.log.Warn("hot reload disabled", zap.Error(err))
		}
	}

	return v, nil
}

// loadLandscape builds the landscape from the archive, the heightmap file or
// a generated heightmap, in that order of preference.
func (v *viewer) loadLandscape() error {
	lc := v.cfg.Landscape
	switch {
	case lc.Archive != "":
		return v.land.LoadArchive(lc.Archive)
	case lc.Heightmap != "":
		hm, err := loadHeightmap(lc.Heightmap)
		if err != nil {
			return err
		}
		return v.land.BuildFromHeightmap(hm, lc.BoundingBox())
	default:
		g := lc.Generate
		v.log.Info("generating heightmap",
			zap.Int("size", g.Size),
			zap.Int64("seed", g.Seed),
			zap.Int("octaves", g.Octaves),
		)
		hm, err := heightmap.Generate(g.Size, g.Seed, g.Octaves)
		if err != nil {
			return err
		}
		return v.land.BuildFromHeightmap(hm, lc.BoundingBox())
	}
}

func loadHeightmap(path string) (*heightmap.Heightmap, error) {
	if heightmap.IsImagePath(path) {
		return heightmap.LoadImage(path)
	}
	return heightmap.Load(path)
}

func (v *viewer) startWatcher() error {
	w, err := hotreload.New(v.cfg.Watch.Debounce)
	if err != nil {
		return err
	}
	for _, path := range v.watchedFiles() {
		if err := w.Add(path); err != nil {
			w.Close()
			return err
		}
	}
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	v.watcher = w
	v.cancel = cancel
	return nil
}

// watchedFiles lists the landscape inputs: the archive or heightmap and every
// texture referenced by the material.
func (v *viewer) watchedFiles() []string {
	var files []string
	if v.cfg.Landscape.Archive != "" {
		files = append(files, v.cfg.Landscape.Archive)
	}
	if p := v.currentHeightmapPath(); p != "" {
		files = append(files, p)
	}
	for _, tex := range v.land.Material().Textures {
		if tex != "" {
			files = append(files, tex)
		}
	}
	return files
}

func (v *viewer) currentHeightmapPath() string {
	if p := v.land.HeightmapPath(); p != "" {
		return p
	}
	return v.cfg.Landscape.Heightmap
}

// reload handles a changed file. It runs on the render thread.
func (v *viewer) reload(path string) {
	v.log.Info("file changed", zap.String("path", path))

	switch {
	case samePath(path, v.cfg.Landscape.Archive):
		if err := v.land.LoadArchive(path); err != nil {
			v.log.Error("archive reload failed", zap.Error(err))
		}
	case samePath(path, v.currentHeightmapPath()):
		hm, err := loadHeightmap(path)
		if err != nil {
			v.log.Error("heightmap reload failed", zap.Error(err))
			return
		}
		if err := v.land.SetHeightmap(hm); err != nil {
			v.log.Error("rebuild failed", zap.Error(err))
		}
	default:
		v.renderer.InvalidateTexture(path)
	}
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// Run runs the main loop until the window is closed.
func (v *viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var stats landscape.FrameStats

	v.log.Info("starting main loop")

	for v.running {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		v.handleEvents()
		v.handleMovement(dt)
		v.pollReloads()

		v.renderer.Begin()
		v.renderer.SetViewProjection(v.cam.ViewProjection())
		var err error
		stats, err = v.land.Draw(v.cam)
		if err != nil {
			return fmt.Errorf("draw: %w", err)
		}
		v.renderer.End()
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("landview | %d fps | %d patches | %d draws | %d tris | %s",
				frameCount, stats.Patches, stats.DrawCalls, stats.Triangles(), v.land.Options().Quality))
			v.log.Debug("frame",
				zap.Int("fps", frameCount),
				zap.Int("patches", stats.Patches),
				zap.Int("clipped", stats.Clipped),
				zap.Int("drawCalls", stats.DrawCalls),
				zap.Int("indices", stats.Indices),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (v *viewer) handleEvents() {
	v.events = v.window.PollEvents(v.events[:0])
	for _, ev := range v.events {
		switch ev.Type {
		case window.EventQuit:
			v.running = false
		case window.EventResize:
			v.renderer.Resize(int(ev.X), int(ev.Y))
			v.cam.SetViewport(int(ev.X), int(ev.Y))
		case window.EventMouseDrag:
			v.cam.HandleDrag(ev.X, ev.Y)
		case window.EventWheel:
			v.cam.HandleZoom(ev.Y)
		case window.EventKeyDown:
			v.handleKey(ev.Key)
		}
	}
}

func (v *viewer) handleKey(key sdl.Keycode) {
	switch key {
	case sdl.K_ESCAPE:
		v.running = false
	case sdl.K_z:
		v.cam.ToggleZoom()
		v.log.Info("zoom", zap.Bool("on", v.cam.Zoomed), zap.Float32("fov", v.cam.FOV()))
	case sdl.K_r:
		start := time.Now()
		if err := v.land.Rebuild(); err != nil {
			v.log.Error("rebuild failed", zap.Error(err))
			return
		}
		v.log.Info("rebuilt", zap.Duration("took", time.Since(start)))
	case sdl.K_q:
		q := (v.land.Options().Quality + 1) % (landscape.QualityHigh + 1)
		if err := v.land.SetQuality(q); err != nil {
			v.log.Error("quality change failed", zap.Error(err))
			return
		}
		v.log.Info("quality", zap.Stringer("quality", q))
	case sdl.K_f:
		v.renderer.SetWireframe(!v.renderer.Wireframe())
	}
}

// handleMovement pans the orbit center with WASD and raises it with E/C.
func (v *viewer) handleMovement(dt float32) {
	var forward, right, up float32
	if window.KeyHeld(sdl.SCANCODE_W) {
		forward++
	}
	if window.KeyHeld(sdl.SCANCODE_S) {
		forward--
	}
	if window.KeyHeld(sdl.SCANCODE_D) {
		right++
	}
	if window.KeyHeld(sdl.SCANCODE_A) {
		right--
	}
	if window.KeyHeld(sdl.SCANCODE_E) {
		up++
	}
	if window.KeyHeld(sdl.SCANCODE_C) {
		up--
	}
	if forward == 0 && right == 0 && up == 0 {
		return
	}
	speed := moveSpeed * dt
	v.cam.HandleMovement(forward*speed, right*speed, up*speed)
}

func (v *viewer) pollReloads() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-v.watcher.Requests():
			if !ok {
				v.watcher = nil
				return
			}
			v.reload(path)
		default:
			return
		}
	}
}

// Close releases the landscape, GL resources and the window.
func (v *viewer) Close() {
	v.log.Info("closing viewer")

	if v.cancel != nil {
		v.cancel()
	}
	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.land != nil {
		v.land.Release()
	}
	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
