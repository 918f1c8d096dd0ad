// Package gpu is the device-independent GPU abstraction the renderer
// issues draws through, plus the allocator that manages buffer,
// texture, and framebuffer lifetimes on top of it (spec.md §3.8,
// §4.5.3, §4.5.4). It deliberately stops short of any concrete
// backend: wiring a Device to real OpenGL/WebGL2 objects is a host
// concern spec.md §1 places out of scope.
package gpu

// Device is the backend-independent GPU entry point: program/buffer/
// texture/framebuffer creation plus the draw calls the renderer issues
// each frame. A concrete backend (OpenGL, WebGL2, ...) implements it;
// this package never constructs one.
type Device interface {
	BeginFrame()
	EndFrame()
	Caps() Caps

	NewProgram(name string, vertexSrc, fragmentSrc string) (Program, error)
	NewBuffer(kind BufferKind, size int) Buffer
	NewImmutableBuffer(kind BufferKind, data []byte) Buffer
	NewTexture(desc TextureDescriptor) Texture
	NewFramebuffer(desc TextureDescriptor) Framebuffer
	DefaultFramebuffer() Framebuffer

	Viewport(x, y, width, height int)
	ClearColor(r, g, b, a float32)
	Clear(attachments BufferAttachments)
	SetBlend(enable bool)
	BlendFunc(src, dst BlendFactor)
	DrawArraysInstanced(mode DrawMode, first, count, instances int)
}

// Caps describes backend limits and optional features the renderer
// adapts to (spec.md §6: "OpenGL 3.0+ / WebGL2; required features:
// instancing, VAOs, fp32 textures for curves, framebuffer blit").
type Caps struct {
	MaxTextureSize int
	Features       Features
}

type Features uint

const (
	FeatureFloatTextures Features = 1 << iota
	FeatureFramebufferBlit
	FeatureInstancing
)

func (f Features) Has(want Features) bool { return f&want == want }

// Program is a linked shader pair bound to one of the draw programs
// spec.md §4.5.3 names: path, boundary_span, filled_span, line, rect,
// circle.
type Program interface {
	Bind()
	Release()
	SetUniform(name string, value any)
	BindTexture(name string, unit int, t Texture)
}

// Buffer is a GPU-resident vertex, index, or instance buffer.
type Buffer interface {
	Upload(data []byte)
	BindVertex(stride, offset int)
	BindIndex()
	Release()
}

// BufferKind distinguishes the two buffer families size-classed by
// the allocator (spec.md §4.5.4).
type BufferKind uint8

const (
	BufferGeneral BufferKind = iota
	BufferIndex
)

type BufferAttachments uint

const (
	AttachmentColor BufferAttachments = 1 << iota
	AttachmentDepth
	AttachmentStencil
)

type BlendFactor uint8

const (
	BlendOne BlendFactor = iota
	BlendZero
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
)

type DrawMode uint8

const (
	DrawTriangles DrawMode = iota
	DrawTriangleStrip
)

// TextureFormat enumerates the pixel formats spec.md §3.8 lists.
type TextureFormat uint8

const (
	FormatR8 TextureFormat = iota
	FormatR16F
	FormatR32F
	FormatRGBA8
	FormatRGBA16F
	FormatRGBA32F
	FormatDepthStencil
)

// BytesPerPixel returns the storage cost of one texel in f, used by
// the allocator's bytes_allocated accounting.
func (f TextureFormat) BytesPerPixel() int {
	switch f {
	case FormatR8:
		return 1
	case FormatR16F:
		return 2
	case FormatR32F, FormatDepthStencil:
		return 4
	case FormatRGBA8:
		return 4
	case FormatRGBA16F:
		return 8
	case FormatRGBA32F:
		return 16
	default:
		return 4
	}
}

// TextureDescriptor is the exact-match key textures and framebuffers
// are allocated and reused by (spec.md §3.8).
type TextureDescriptor struct {
	Width, Height int
	Format        TextureFormat
}

func (d TextureDescriptor) byteSize() int64 {
	return int64(d.Width) * int64(d.Height) * int64(d.Format.BytesPerPixel())
}

// Texture is a GPU-resident 2D image.
type Texture interface {
	Upload(data []byte)
	Bind(unit int)
	Release()
}

// Framebuffer is a GPU render target.
type Framebuffer interface {
	Bind()
	BindTexture(t Texture)
	Release()
}
