package gpu

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Decay and Reuse bound the buffer free list's lifetime (spec.md
// §4.5.4): a freed buffer younger than Reuse is still mid-flight on
// the GPU and must not be handed back out; one older than Decay is
// destroyed outright on the next Purge.
const (
	Decay = 250 * time.Millisecond
	Reuse = 15 * time.Millisecond
)

const maxSizeClass = 16 << 20 // 16 MiB

// sizeClass rounds n up to the next power of two, capped at
// maxSizeClass; requests above the cap use their exact size
// (spec.md §4.5.4: "powers of two up to 16 MiB; larger sizes exact").
func sizeClass(n int) int {
	if n <= 0 {
		return 0
	}
	if n > maxSizeClass {
		return n
	}
	c := 1
	for c < n {
		c <<= 1
	}
	return c
}

type bufferClass struct {
	kind  BufferKind
	class int
}

type freedBuffer struct {
	buf        Buffer
	size       int
	releasedAt time.Time
}

// Allocator is the GPU-resident resource manager bound to one Device
// (spec.md §3.8, §5: "singleton bound to the device"). Buffers are
// pooled by size class with age-based decay/reuse; textures and
// framebuffers are cached by their exact TextureDescriptor behind an
// LRU that releases the GPU object on eviction, following the same
// get/put/evict shape as a resource cache over an exact key.
type Allocator struct {
	device Device

	free map[bufferClass][]freedBuffer

	textures     *lru.Cache[TextureDescriptor, Texture]
	framebuffers *lru.Cache[TextureDescriptor, Framebuffer]

	bytesAllocated int64
	bytesCommitted int64
}

// NewAllocator returns an allocator bound to device. textureCap and
// framebufferCap bound how many distinct descriptors are kept alive
// for reuse before the least-recently-used one is released.
func NewAllocator(device Device, textureCap, framebufferCap int) *Allocator {
	a := &Allocator{device: device, free: make(map[bufferClass][]freedBuffer)}

	a.textures, _ = lru.NewWithEvict(textureCap, func(desc TextureDescriptor, t Texture) {
		t.Release()
		a.bytesAllocated -= desc.byteSize()
		a.bytesCommitted -= desc.byteSize()
	})
	a.framebuffers, _ = lru.NewWithEvict(framebufferCap, func(desc TextureDescriptor, f Framebuffer) {
		f.Release()
	})
	return a
}

// BytesAllocated returns the total bytes currently resident on the GPU.
func (a *Allocator) BytesAllocated() int64 { return a.bytesAllocated }

// BytesCommitted returns the bytes currently in active use (allocated
// minus whatever sits idle in the free list).
func (a *Allocator) BytesCommitted() int64 { return a.bytesCommitted }

// AllocBuffer returns a buffer of kind able to hold size bytes,
// reusing the most recently freed matching buffer aged at least Reuse
// when one is available, or creating a new one otherwise.
func (a *Allocator) AllocBuffer(kind BufferKind, size int, now time.Time) Buffer {
	class := bufferClass{kind: kind, class: sizeClass(size)}
	bucket := a.free[class]
	for i := len(bucket) - 1; i >= 0; i-- {
		fb := bucket[i]
		if now.Sub(fb.releasedAt) < Reuse {
			continue
		}
		a.free[class] = append(bucket[:i], bucket[i+1:]...)
		a.bytesCommitted += int64(fb.size)
		return fb.buf
	}
	buf := a.device.NewBuffer(kind, class.class)
	a.bytesAllocated += int64(class.class)
	a.bytesCommitted += int64(class.class)
	return buf
}

// FreeBuffer releases buf of the given kind/size back to the free
// list rather than destroying it immediately, so a same-size
// allocation shortly afterward can reuse the GPU object.
func (a *Allocator) FreeBuffer(kind BufferKind, size int, buf Buffer, now time.Time) {
	class := bufferClass{kind: kind, class: sizeClass(size)}
	a.free[class] = append(a.free[class], freedBuffer{buf: buf, size: class.class, releasedAt: now})
	a.bytesCommitted -= int64(class.class)
}

// Purge destroys every freed buffer older than Decay. It must run
// once per end_commands (spec.md §5).
func (a *Allocator) Purge(now time.Time) {
	for class, bucket := range a.free {
		kept := bucket[:0]
		for _, fb := range bucket {
			if now.Sub(fb.releasedAt) >= Decay {
				fb.buf.Release()
				a.bytesAllocated -= int64(fb.size)
				continue
			}
			kept = append(kept, fb)
		}
		if len(kept) == 0 {
			delete(a.free, class)
		} else {
			a.free[class] = kept
		}
	}
}

// Texture returns a texture matching desc exactly, creating one if the
// cache holds none, and marks it most-recently-used.
func (a *Allocator) Texture(desc TextureDescriptor) Texture {
	if t, ok := a.textures.Get(desc); ok {
		return t
	}
	t := a.device.NewTexture(desc)
	a.bytesAllocated += desc.byteSize()
	a.bytesCommitted += desc.byteSize()
	a.textures.Add(desc, t)
	return t
}

// Framebuffer returns a framebuffer matching desc exactly, creating
// one if the cache holds none.
func (a *Allocator) Framebuffer(desc TextureDescriptor) Framebuffer {
	if f, ok := a.framebuffers.Get(desc); ok {
		return f
	}
	f := a.device.NewFramebuffer(desc)
	a.framebuffers.Add(desc, f)
	return f
}

// ReleaseAll tears down every pooled and cached resource, for device
// shutdown.
func (a *Allocator) ReleaseAll() {
	for class, bucket := range a.free {
		for _, fb := range bucket {
			fb.buf.Release()
		}
		delete(a.free, class)
	}
	a.textures.Purge()
	a.framebuffers.Purge()
	a.bytesAllocated = 0
	a.bytesCommitted = 0
}
