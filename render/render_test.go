package render

import (
	"testing"
	"time"

	"github.com/graphick-dev/graphick/geom"
	"github.com/graphick-dev/graphick/gpu"
	"github.com/graphick-dev/graphick/path"
	"github.com/graphick-dev/graphick/scene"
)

type stubBuffer struct{}

func (stubBuffer) Upload(data []byte)         {}
func (stubBuffer) BindVertex(stride, off int) {}
func (stubBuffer) BindIndex()                 {}
func (stubBuffer) Release()                   {}

type stubTexture struct{}

func (stubTexture) Upload(data []byte) {}
func (stubTexture) Bind(unit int)      {}
func (stubTexture) Release()           {}

type stubFramebuffer struct{}

func (stubFramebuffer) Bind()                   {}
func (stubFramebuffer) BindTexture(t gpu.Texture) {}
func (stubFramebuffer) Release()                {}

type stubProgram struct{ drawCalls int }

func (p *stubProgram) Bind()                                          { p.drawCalls++ }
func (p *stubProgram) Release()                                       {}
func (p *stubProgram) SetUniform(name string, value any)              {}
func (p *stubProgram) BindTexture(name string, unit int, t gpu.Texture) {}

type stubDevice struct {
	programs     map[string]*stubProgram
	drawnBatches int
}

func newStubDevice() *stubDevice { return &stubDevice{programs: map[string]*stubProgram{}} }

func (d *stubDevice) BeginFrame() {}
func (d *stubDevice) EndFrame()   {}
func (d *stubDevice) Caps() gpu.Caps { return gpu.Caps{} }
func (d *stubDevice) NewProgram(name, v, f string) (gpu.Program, error) {
	p := &stubProgram{}
	d.programs[name] = p
	return p, nil
}
func (d *stubDevice) NewBuffer(kind gpu.BufferKind, size int) gpu.Buffer            { return stubBuffer{} }
func (d *stubDevice) NewImmutableBuffer(kind gpu.BufferKind, data []byte) gpu.Buffer { return stubBuffer{} }
func (d *stubDevice) NewTexture(desc gpu.TextureDescriptor) gpu.Texture             { return stubTexture{} }
func (d *stubDevice) NewFramebuffer(desc gpu.TextureDescriptor) gpu.Framebuffer     { return stubFramebuffer{} }
func (d *stubDevice) DefaultFramebuffer() gpu.Framebuffer                          { return stubFramebuffer{} }
func (d *stubDevice) Viewport(x, y, w, h int)                                       {}
func (d *stubDevice) ClearColor(r, g, b, a float32)                                 {}
func (d *stubDevice) Clear(attachments gpu.BufferAttachments)                       {}
func (d *stubDevice) SetBlend(enable bool)                                         {}
func (d *stubDevice) BlendFunc(src, dst gpu.BlendFactor)                           {}
func (d *stubDevice) DrawArraysInstanced(mode gpu.DrawMode, first, count, instances int) {
	d.drawnBatches++
}

func stubSources() map[string][2]string {
	m := map[string][2]string{}
	for _, name := range []string{"filled_span", "boundary_span", "line", "rect", "circle"} {
		m[name] = [2]string{"// vertex", "// fragment"}
	}
	return m
}

func TestBuildDrawableFilledRect(t *testing.T) {
	s := scene.New()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)
	e.AddFill(scene.FillComponent{Paint: scene.Paint{Color: [4]float32{1, 0, 0, 1}}})
	s.History.EndBatch()

	d, ok := BuildDrawable(e, 0, 1)
	if !ok {
		t.Fatal("expected a drawable for a filled rect")
	}
	if len(d.Tiles.Filled) == 0 {
		t.Fatal("expected at least one filled span")
	}
}

func TestBuildDrawableStrokeProducesBoundary(t *testing.T) {
	s := scene.New()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)
	e.AddFill(scene.FillComponent{Paint: scene.Paint{Color: [4]float32{0, 0, 0, 0}}})
	s.History.EndBatch()

	stroke := scene.StrokeComponent{Paint: scene.Paint{Color: [4]float32{0, 0, 1, 1}}, Width: 4, Cap: scene.CapButt, Join: scene.JoinMiter, MiterLimit: 4}
	e.AddStroke(stroke)

	d, ok := BuildDrawable(e, 0, 1)
	if !ok {
		t.Fatal("expected a drawable with a stroke present")
	}
	if len(d.Tiles.Boundary) == 0 {
		t.Fatal("a stroked outline should produce boundary spans along its edges")
	}
}

func TestBuildDrawableGradientResolvesRamp(t *testing.T) {
	s := scene.New()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)

	gid := s.CreateGradient([]scene.GradientStop{
		{Offset: 0, Color: [4]float32{1, 0, 0, 1}},
		{Offset: 1, Color: [4]float32{0, 0, 1, 1}},
	})
	e.AddFill(scene.FillComponent{Paint: scene.Paint{
		Kind:          scene.PaintLinearGradient,
		Gradient:      gid,
		GradientStart: geom.Pt(0, 0),
		GradientEnd:   geom.Pt(50, 0),
	}})
	s.History.EndBatch()

	d, ok := BuildDrawable(e, 0, 1)
	if !ok {
		t.Fatal("expected a drawable for a gradient-filled rect")
	}
	if d.PaintKind != scene.PaintLinearGradient {
		t.Fatalf("PaintKind = %v, want PaintLinearGradient", d.PaintKind)
	}
	if len(d.Ramp) != RampWidth*4 {
		t.Fatalf("ramp length = %d, want %d", len(d.Ramp), RampWidth*4)
	}
	// the ramp should start red and end blue.
	if d.Ramp[0] < 0.5 || d.Ramp[2] > 0.1 {
		t.Fatalf("ramp start = %v, want red-dominant", d.Ramp[:4])
	}
	last := (RampWidth - 1) * 4
	if d.Ramp[last] > 0.1 || d.Ramp[last+2] < 0.5 {
		t.Fatalf("ramp end = %v, want blue-dominant", d.Ramp[last:last+4])
	}
}

func TestBuildDrawableMissingGradientFallsBackToSolid(t *testing.T) {
	s := scene.New()
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)
	e.AddFill(scene.FillComponent{Paint: scene.Paint{Kind: scene.PaintLinearGradient, Gradient: [16]byte{1}}})
	s.History.EndBatch()

	d, ok := BuildDrawable(e, 0, 1)
	if !ok {
		t.Fatal("expected a drawable even with an unresolved gradient reference")
	}
	if d.PaintKind != scene.PaintSolidColor {
		t.Fatalf("PaintKind = %v, want fallback to PaintSolidColor", d.PaintKind)
	}
}

func TestRendererFrameDrawsWithoutError(t *testing.T) {
	dev := newStubDevice()
	r, err := New(dev, stubSources())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s := scene.New()
	s.Viewport.Resize(geom.IPt(800, 600), geom.IPt(0, 0), 1)
	p := path.New()
	p.Rect(geom.RectWH(0, 0, 50, 50))
	e := s.CreateElement(p)
	e.AddFill(scene.FillComponent{Paint: scene.Paint{Color: [4]float32{1, 1, 1, 1}}})
	s.History.EndBatch()

	if err := r.Frame(s, time.Unix(0, 0)); err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if dev.drawnBatches == 0 {
		t.Fatal("expected at least one instanced draw call")
	}
	r.Close()
}
