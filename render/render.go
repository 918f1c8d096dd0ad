package render

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/gpu"
	"github.com/graphick-dev/graphick/scene"
)

// cacheSubdivisions is the fixed grid resolution the renderer lays
// scene.Cache's invalidation grid out at over the current visible rect.
var cacheSubdivisions = geom.IVec2{X: 8, Y: 8}

// programNames are the draw programs spec.md §4.5.3 names; path is
// reserved for a future GPU-side tessellation fast path and is not
// issued by this CPU-tiled pipeline.
const (
	programFilledSpan   = "filled_span"
	programBoundarySpan = "boundary_span"
	programLine         = "line"
	programRect         = "rect"
	programCircle       = "circle"
)

// Renderer draws one scene to a framebuffer each frame, following the
// pipeline in spec.md §4.5.1. It owns the compiled programs and the
// GPU allocator; a fresh Renderer is created whenever the editor's
// prepare_refresh/refresh cycle runs (spec.md §4.7).
type Renderer struct {
	device gpu.Device
	alloc  *gpu.Allocator

	programs map[string]gpu.Program

	curvesTexture   gpu.Texture
	gradientTexture gpu.Texture

	lastVisible geom.Rect
	cached      map[uuid.UUID]Drawable
}

// InvalidateAll drops the renderer's entire Drawable cache, forcing
// every visible entity to be rebuilt on the next Frame. Paired with
// scene.Cache.InvalidateAll for the editor's IgnoreCache render option,
// since Cache.Clear alone doesn't populate the invalid-rect list this
// renderer's cache actually consults.
func (r *Renderer) InvalidateAll() {
	r.cached = nil
}

// New compiles the draw programs against device and wires an
// allocator bound to it. sources supplies each program's GLSL/WGSL
// pair; the concrete shader text is a host concern spec.md §1 excludes
// from this module.
func New(device gpu.Device, sources map[string][2]string) (*Renderer, error) {
	r := &Renderer{device: device, alloc: gpu.NewAllocator(device, 64, 16), programs: map[string]gpu.Program{}}
	for _, name := range []string{programFilledSpan, programBoundarySpan, programLine, programRect, programCircle} {
		src, ok := sources[name]
		if !ok {
			continue
		}
		p, err := device.NewProgram(name, src[0], src[1])
		if err != nil {
			return nil, fmt.Errorf("render: compile program %q: %w", name, err)
		}
		r.programs[name] = p
	}
	return r, nil
}

// Frame renders s to the default framebuffer at the given wall-clock
// time, implementing spec.md §4.5.1's four pipeline steps. It always
// returns nil: gpu.Allocator and gpu.Device report no allocation
// errors, so there is no failure path that aborts the frame.
func (r *Renderer) Frame(s *scene.Scene, now time.Time) error {
	r.device.BeginFrame()
	defer r.device.EndFrame()

	size := s.Viewport.Size()
	r.device.Viewport(0, 0, size.X, size.Y)
	r.device.ClearColor(0, 0, 0, 0)
	r.device.Clear(gpu.AttachmentColor | gpu.AttachmentDepth)

	visible := s.Viewport.Visible()
	if visible != r.lastVisible {
		s.Cache.SetGridRect(visible, cacheSubdivisions)
		r.lastVisible = visible
		r.cached = nil
	}
	if r.cached == nil {
		r.cached = make(map[uuid.UUID]Drawable)
	}
	dirty := s.Cache.DrainInvalidRects()

	order := s.ZOrder()
	drawables := make([]Drawable, 0, len(order))
	for zIndex, id := range order {
		e := s.Entity(id)
		if !e.Valid() || !e.IsElement() || e.IsInCategory(scene.CategoryHidden) {
			continue
		}
		p, ok := e.Path()
		if !ok {
			continue
		}
		bounds := p.BoundingRectTransformed(e.Transform().Matrix)
		if !s.Viewport.IsVisible(bounds) {
			delete(r.cached, id)
			continue
		}
		if cached, ok := r.cached[id]; ok && !overlapsAny(bounds, dirty) {
			cached.ZIndex = zIndex
			drawables = append(drawables, cached)
			continue
		}
		d, ok := BuildDrawable(e, zIndex, s.Viewport.Zoom())
		if !ok {
			continue
		}
		r.cached[id] = d
		drawables = append(drawables, d)
	}

	r.drawBatches(drawables, now)

	r.alloc.Purge(now)
	return nil
}

func overlapsAny(r geom.Rect, rects []geom.Rect) bool {
	for _, d := range rects {
		if r.Intersects(d) {
			return true
		}
	}
	return false
}

// drawBatches issues one instanced draw per span kind per drawable,
// per spec.md §4.5.1 step 3 ("emit two instanced GPU draws per
// batch"). Drawables are already in z-order from Frame's walk, so
// batching by z-index is simply issuing them in slice order.
func (r *Renderer) drawBatches(drawables []Drawable, now time.Time) {
	for _, d := range drawables {
		curves := PackCurves(d.Curves)
		if len(curves) > 0 {
			r.uploadCurves(curves)
		}
		if len(d.Ramp) > 0 {
			r.uploadRamp(d.Ramp)
		}

		if len(d.Tiles.Filled) > 0 {
			buf := r.alloc.AllocBuffer(gpu.BufferGeneral, len(d.Tiles.Filled)*32, now)
			payload := make([]byte, 0, len(d.Tiles.Filled)*32)
			for _, f := range d.Tiles.Filled {
				payload = append(payload, packFilledSpanInstance(f.Rect, d.Color)...)
			}
			buf.Upload(payload)
			r.issue(programFilledSpan, buf, len(d.Tiles.Filled), d)
			r.alloc.FreeBuffer(gpu.BufferGeneral, len(d.Tiles.Filled)*32, buf, now)
		}

		if len(d.Tiles.Boundary) > 0 {
			buf := r.alloc.AllocBuffer(gpu.BufferGeneral, len(d.Tiles.Boundary)*40, now)
			payload := make([]byte, 0, len(d.Tiles.Boundary)*40)
			offset := 0
			for _, b := range d.Tiles.Boundary {
				payload = append(payload, packBoundarySpanInstance(b.Rect, d.Color, offset, len(b.CurveIndices))...)
				offset += len(b.CurveIndices)
			}
			buf.Upload(payload)
			r.issue(programBoundarySpan, buf, len(d.Tiles.Boundary), d)
			r.alloc.FreeBuffer(gpu.BufferGeneral, len(d.Tiles.Boundary)*40, buf, now)
		}
	}
}

func (r *Renderer) uploadCurves(texels []float32) {
	desc := gpu.TextureDescriptor{Width: len(texels) / 4, Height: 1, Format: gpu.FormatRGBA32F}
	r.curvesTexture = r.alloc.Texture(desc)
	r.curvesTexture.Upload(packFloats(texels))
}

func (r *Renderer) uploadRamp(texels []float32) {
	desc := gpu.TextureDescriptor{Width: RampWidth, Height: 1, Format: gpu.FormatRGBA32F}
	r.gradientTexture = r.alloc.Texture(desc)
	r.gradientTexture.Upload(packFloats(texels))
}

func (r *Renderer) issue(program string, buf gpu.Buffer, instances int, d Drawable) {
	p, ok := r.programs[program]
	if !ok {
		return
	}
	p.Bind()
	defer p.Release()
	if r.curvesTexture != nil {
		p.BindTexture("curves", 0, r.curvesTexture)
	}
	switch d.PaintKind {
	case scene.PaintLinearGradient, scene.PaintRadialGradient:
		if r.gradientTexture != nil {
			p.BindTexture("gradients", 1, r.gradientTexture)
		}
		p.SetUniform("gradientKind", d.PaintKind)
		p.SetUniform("gradientStart", [2]float32{d.GradientStart.X, d.GradientStart.Y})
		p.SetUniform("gradientEnd", [2]float32{d.GradientEnd.X, d.GradientEnd.Y})
	}
	buf.BindVertex(0, 0)
	r.device.DrawArraysInstanced(gpu.DrawTriangleStrip, 0, 4, instances)
}

// Close releases every GPU resource the renderer holds, for the
// prepare_refresh/shutdown half of spec.md §4.7's lifecycle.
func (r *Renderer) Close() {
	for _, p := range r.programs {
		p.Release()
	}
	r.alloc.ReleaseAll()
}
