package render

import "image"

// textureIdleFrames is how many rendered frames a texture may go unused
// before its GPU copy is released. Replaced loader images stop being drawn,
// so they age out.
const textureIdleFrames = 60

// textureCache maps decoded images to uploaded textures.
type textureCache[T any] struct {
	entries map[image.Image]*cachedTexture[T]
	frame   int
	maxIdle int
	upload  func(image.Image) T
	release func(T)
}

type cachedTexture[T any] struct {
	tex      T
	lastUsed int
}

func newTextureCache[T any](maxIdle int, upload func(image.Image) T, release func(T)) *textureCache[T] {
	return &textureCache[T]{
		entries: make(map[image.Image]*cachedTexture[T]),
		maxIdle: maxIdle,
		upload:  upload,
		release: release,
	}
}

func (c *textureCache[T]) get(img image.Image) T {
	if e, ok := c.entries[img]; ok {
		e.lastUsed = c.frame
		return e.tex
	}
	t := c.upload(img)
	c.entries[img] = &cachedTexture[T]{tex: t, lastUsed: c.frame}
	return t
}

// nextFrame starts a frame and releases textures idle for too long.
func (c *textureCache[T]) nextFrame() {
	c.frame++
	for img, e := range c.entries {
		if c.frame-e.lastUsed > c.maxIdle {
			c.release(e.tex)
			delete(c.entries, img)
		}
	}
}

func (c *textureCache[T]) clear() {
	for img, e := range c.entries {
		c.release(e.tex)
		delete(c.entries, img)
	}
}

func (c *textureCache[T]) len() int { return len(c.entries) }
