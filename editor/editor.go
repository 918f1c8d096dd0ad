// Package editor owns program-wide lifecycle and frame pacing across
// every open scene (spec.md §4.7): it creates and tears down the
// renderer, propagates host resize events to each scene's viewport,
// and coalesces render requests to a target frame rate.
package editor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/gpu"
	"github.com/graphick-dev/graphick/render"
	"github.com/graphick-dev/graphick/scene"
)

// RenderOptions configures a single RequestRender call (spec.md §4.7).
type RenderOptions struct {
	// FrameRate caps the coalesced render rate; values above 60 are
	// clamped.
	FrameRate float32
	// IgnoreCache forces every entity to be retiled even if its cache
	// cells are still valid.
	IgnoreCache bool
	// UpdateUI requests the manipulator/selection overlay be redrawn
	// alongside the scene.
	UpdateUI bool
}

const defaultFrameRate = 60

// FontManager is the editor's font-resolution collaborator (spec.md
// §4.7/§4.8). The editor holds a reference across its own lifecycle and
// releases it on Shutdown or when SetFontManager replaces it, but otherwise never reaches
// into it -- glyph lookup and layout are a host/UI-layer concern this
// module doesn't implement.
type FontManager interface {
	Close()
}

// ResourceManager is the editor's asset-loading collaborator (spec.md
// §4.7/§4.8) -- images and other external assets referenced by a scene
// but not owned by it. Held the same lifecycle-only way as FontManager.
type ResourceManager interface {
	Close()
}

// Editor is the program-wide owner of every open scene and the single
// renderer drawing the primary one.
type Editor struct {
	device  gpu.Device
	sources map[string][2]string

	renderer  *render.Renderer
	fonts     FontManager
	resources ResourceManager

	scenes  map[uuid.UUID]*scene.Scene
	primary uuid.UUID

	lastRender time.Time
	pending    *RenderOptions
}

// Init constructs an Editor bound to device, compiling the renderer's
// programs from sources (spec.md §4.7's `init`).
func Init(device gpu.Device, sources map[string][2]string) (*Editor, error) {
	r, err := render.New(device, sources)
	if err != nil {
		return nil, fmt.Errorf("editor: init renderer: %w", err)
	}
	return &Editor{
		device:   device,
		sources:  sources,
		renderer: r,
		scenes:   make(map[uuid.UUID]*scene.Scene),
	}, nil
}

// SetFontManager attaches the font-resolution collaborator the editor
// holds for the rest of its lifecycle, releasing any previous one.
func (ed *Editor) SetFontManager(f FontManager) {
	if ed.fonts != nil {
		ed.fonts.Close()
	}
	ed.fonts = f
}

// SetResourceManager attaches the asset-loading collaborator the editor
// holds for the rest of its lifecycle, releasing any previous one.
func (ed *Editor) SetResourceManager(r ResourceManager) {
	if ed.resources != nil {
		ed.resources.Close()
	}
	ed.resources = r
}

// Shutdown releases the renderer, font manager, resource manager, and
// every GPU resource they hold (spec.md §4.7's `shutdown`).
func (ed *Editor) Shutdown() {
	if ed.renderer != nil {
		ed.renderer.Close()
		ed.renderer = nil
	}
	if ed.fonts != nil {
		ed.fonts.Close()
		ed.fonts = nil
	}
	if ed.resources != nil {
		ed.resources.Close()
		ed.resources = nil
	}
}

// PrepareRefresh tears down the renderer ahead of a device loss or
// context swap, leaving every scene's entity/history/selection state
// untouched (spec.md §4.7's `prepare_refresh`).
func (ed *Editor) PrepareRefresh() {
	if ed.renderer != nil {
		ed.renderer.Close()
		ed.renderer = nil
	}
}

// Refresh re-creates the renderer against a (possibly new) device,
// preserving every scene added before the refresh (spec.md §4.7's
// `refresh`).
func (ed *Editor) Refresh(device gpu.Device) error {
	r, err := render.New(device, ed.sources)
	if err != nil {
		return fmt.Errorf("editor: refresh renderer: %w", err)
	}
	ed.device = device
	ed.renderer = r
	return nil
}

// AddScene registers s with the editor, making it primary if it is
// the first scene added.
func (ed *Editor) AddScene(s *scene.Scene) {
	ed.scenes[s.ID] = s
	if ed.primary == uuid.Nil {
		ed.primary = s.ID
	}
}

// SetPrimary selects which registered scene RenderFrame draws.
func (ed *Editor) SetPrimary(id uuid.UUID) bool {
	if _, ok := ed.scenes[id]; !ok {
		return false
	}
	ed.primary = id
	return true
}

// PrimaryScene returns the scene RenderFrame currently targets.
func (ed *Editor) PrimaryScene() (*scene.Scene, bool) {
	s, ok := ed.scenes[ed.primary]
	return s, ok
}

// Resize propagates a host resize to every open scene's viewport
// (spec.md §4.7's `resize`).
func (ed *Editor) Resize(size, offset geom.IVec2, dpr float32) {
	for _, s := range ed.scenes {
		s.Viewport.Resize(size, offset, dpr)
	}
}

// RequestRender queues a render, coalescing repeated requests within
// one frame interval. It returns false when the last completed render
// is still within `1000/frame_rate` ms, per spec.md §4.7.
func (ed *Editor) RequestRender(opts RenderOptions, now time.Time) bool {
	rate := opts.FrameRate
	if rate <= 0 || rate > defaultFrameRate {
		rate = defaultFrameRate
	}
	interval := time.Duration(1000/rate) * time.Millisecond
	if !ed.lastRender.IsZero() && now.Sub(ed.lastRender) < interval {
		return false
	}
	opts.FrameRate = rate
	ed.pending = &opts
	return true
}

// RenderFrame draws the primary scene if a render request is pending,
// called once per host animation-frame tick (spec.md §4.7's
// `render_frame`).
func (ed *Editor) RenderFrame(now time.Time) error {
	if ed.pending == nil || ed.renderer == nil {
		return nil
	}
	s, ok := ed.PrimaryScene()
	if !ok {
		ed.pending = nil
		return nil
	}
	if ed.pending.IgnoreCache {
		s.Cache.InvalidateAll()
		ed.renderer.InvalidateAll()
	}
	if err := ed.renderer.Frame(s, now); err != nil {
		return err
	}
	ed.pending = nil
	ed.lastRender = now
	return nil
}
