package gpu

import (
	"testing"
	"time"
)

type fakeBuffer struct{ released bool }

func (b *fakeBuffer) Upload(data []byte)          {}
func (b *fakeBuffer) BindVertex(stride, off int)  {}
func (b *fakeBuffer) BindIndex()                  {}
func (b *fakeBuffer) Release()                    { b.released = true }

type fakeTexture struct{ released bool }

func (t *fakeTexture) Upload(data []byte) {}
func (t *fakeTexture) Bind(unit int)      {}
func (t *fakeTexture) Release()           { t.released = true }

type fakeFramebuffer struct{ released bool }

func (f *fakeFramebuffer) Bind()               {}
func (f *fakeFramebuffer) BindTexture(t Texture) {}
func (f *fakeFramebuffer) Release()            { f.released = true }

type fakeDevice struct{ buffersMade, texturesMade int }

func (d *fakeDevice) BeginFrame()          {}
func (d *fakeDevice) EndFrame()            {}
func (d *fakeDevice) Caps() Caps           { return Caps{} }
func (d *fakeDevice) NewProgram(name, v, f string) (Program, error) { return nil, nil }
func (d *fakeDevice) NewBuffer(kind BufferKind, size int) Buffer {
	d.buffersMade++
	return &fakeBuffer{}
}
func (d *fakeDevice) NewImmutableBuffer(kind BufferKind, data []byte) Buffer { return &fakeBuffer{} }
func (d *fakeDevice) NewTexture(desc TextureDescriptor) Texture {
	d.texturesMade++
	return &fakeTexture{}
}
func (d *fakeDevice) NewFramebuffer(desc TextureDescriptor) Framebuffer { return &fakeFramebuffer{} }
func (d *fakeDevice) DefaultFramebuffer() Framebuffer                   { return &fakeFramebuffer{} }
func (d *fakeDevice) Viewport(x, y, w, h int)                           {}
func (d *fakeDevice) ClearColor(r, g, b, a float32)                     {}
func (d *fakeDevice) Clear(attachments BufferAttachments)               {}
func (d *fakeDevice) SetBlend(enable bool)                              {}
func (d *fakeDevice) BlendFunc(src, dst BlendFactor)                    {}
func (d *fakeDevice) DrawArraysInstanced(mode DrawMode, first, count, instances int) {}

func TestSizeClassRoundsUpToPowerOfTwo(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 1000: 1024, 1 << 20: 1 << 20, (1 << 20) + 1: 1 << 21}
	for in, want := range cases {
		if got := sizeClass(in); got != want {
			t.Errorf("sizeClass(%d) = %d, want %d", in, got, want)
		}
	}
	if got := sizeClass(maxSizeClass + 1); got != maxSizeClass+1 {
		t.Errorf("sizeClass above cap should be exact, got %d", got)
	}
}

// TestAllocatorReuse exercises spec.md §8 property 5: after freeing a
// buffer, a same-size allocation at least Reuse later returns the same
// underlying handle, while one sooner does not.
func TestAllocatorReuse(t *testing.T) {
	dev := &fakeDevice{}
	a := NewAllocator(dev, 8, 8)

	t0 := time.Unix(0, 0)
	buf := a.AllocBuffer(BufferGeneral, 100, t0)
	a.FreeBuffer(BufferGeneral, 100, buf, t0)

	tooSoon := t0.Add(Reuse / 2)
	again := a.AllocBuffer(BufferGeneral, 100, tooSoon)
	if again == buf {
		t.Fatal("allocation before Reuse elapsed should not reuse the freed buffer")
	}

	a.FreeBuffer(BufferGeneral, 100, again, tooSoon)
	later := tooSoon.Add(Reuse + time.Millisecond)
	reused := a.AllocBuffer(BufferGeneral, 100, later)
	if reused != again {
		t.Fatal("allocation after Reuse elapsed should return the freed buffer")
	}
}

func TestAllocatorPurgeDecaysOldBuffers(t *testing.T) {
	dev := &fakeDevice{}
	a := NewAllocator(dev, 8, 8)

	t0 := time.Unix(0, 0)
	buf := a.AllocBuffer(BufferGeneral, 64, t0).(*fakeBuffer)
	a.FreeBuffer(BufferGeneral, 64, buf, t0)

	a.Purge(t0.Add(Decay / 2))
	if buf.released {
		t.Fatal("buffer younger than Decay should survive a purge")
	}

	a.Purge(t0.Add(Decay + time.Millisecond))
	if !buf.released {
		t.Fatal("buffer older than Decay should be released by purge")
	}
}

func TestAllocatorTextureCacheExactMatch(t *testing.T) {
	dev := &fakeDevice{}
	a := NewAllocator(dev, 8, 8)

	desc := TextureDescriptor{Width: 64, Height: 64, Format: FormatRGBA8}
	first := a.Texture(desc)
	second := a.Texture(desc)
	if first != second {
		t.Fatal("repeated requests for the same descriptor should return the cached texture")
	}
	if dev.texturesMade != 1 {
		t.Fatalf("expected exactly one texture to be created, got %d", dev.texturesMade)
	}

	other := TextureDescriptor{Width: 128, Height: 64, Format: FormatRGBA8}
	a.Texture(other)
	if dev.texturesMade != 2 {
		t.Fatalf("a different descriptor should create a new texture, got %d created", dev.texturesMade)
	}
}

func TestAllocatorTextureEvictionReleases(t *testing.T) {
	dev := &fakeDevice{}
	a := NewAllocator(dev, 1, 8)

	first := a.Texture(TextureDescriptor{Width: 1, Height: 1, Format: FormatRGBA8}).(*fakeTexture)
	a.Texture(TextureDescriptor{Width: 2, Height: 2, Format: FormatRGBA8})

	if !first.released {
		t.Fatal("evicting the least-recently-used texture should release it")
	}
}
