package texture

import (
	"image"
	"image/color"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/draw"
)

// Updatable is a texture whose pixel data can be replaced in place.
// *Object implements it.
type Updatable interface {
	gpucontext.Texture
	gpucontext.TextureUpdater
}

// nextPow2 returns the smallest power of two >= v, at least 1.
func nextPow2(v int) int {
	n := 1
	for n < v {
		n <<= 1
	}
	return n
}

// FromImage converts img into a texture of the given format.
//
// Image dimensions are rounded up to the next power of two and limited to
// MaxSize; the image is resampled with bilinear filtering when its size
// changes.
func FromImage(img image.Image, format PixelFormat) (*Object, error) {
	if !format.Valid() {
		return nil, ErrInvalidFormat
	}
	b := img.Bounds()
	w := min(nextPow2(b.Dx()), MaxSize)
	h := min(nextPow2(b.Dy()), MaxSize)

	return New(w, h, format, Encode(resample(img, w, h), format))
}

// Redraw replaces the pixel data of tex with img, resampled to the
// texture's size. format must be the format tex was created with.
func Redraw(tex Updatable, img image.Image, format PixelFormat) error {
	if !format.Valid() {
		return ErrInvalidFormat
	}
	return tex.UpdateData(Encode(resample(img, tex.Width(), tex.Height()), format))
}

func resample(img image.Image, w, h int) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	}
	return dst
}

// Encode packs every pixel of img into format, row by row.
func Encode(img *image.NRGBA, format PixelFormat) []byte {
	b := img.Bounds()
	bpp := format.BytesPerPixel()
	out := make([]byte, b.Dx()*b.Dy()*bpp)
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			PutTexel(out[i:], format.Pack(img.NRGBAAt(x, y)))
			i += bpp
		}
	}
	return out
}

// Decode expands the object's pixels back into an image. It returns nil
// if the object holds no pixel data.
func Decode(o *Object) *image.NRGBA {
	data := o.Pixels().Bytes()
	if data == nil {
		return nil
	}
	img := image.NewNRGBA(image.Rect(0, 0, o.Width(), o.Height()))
	bpp := o.Format().BytesPerPixel()
	for y := range o.Height() {
		for x := range o.Width() {
			off := (y*o.Width() + x) * bpp
			img.SetNRGBA(x, y, o.Format().Unpack(Texel(data[off:])))
		}
	}
	return img
}

// Fill creates a texture of a single color, handy for tests and defaults.
func Fill(width, height int, format PixelFormat, c color.NRGBA) (*Object, error) {
	if err := validate(width, height, format); err != nil {
		return nil, err
	}
	bpp := format.BytesPerPixel()
	data := make([]byte, width*height*bpp)
	v := format.Pack(c)
	for i := 0; i < len(data); i += bpp {
		PutTexel(data[i:], v)
	}
	return New(width, height, format, data)
}
