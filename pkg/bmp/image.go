package bmp

import (
	"image"
	"image/color"
)

// NRGBA は同じピクセルを共有する *image.NRGBA を返す。
// BMPのアルファは乗算済みではないため NRGBA として扱う。
func (m *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    m.Pix,
		Stride: m.Width * 4,
		Rect:   image.Rect(0, 0, m.Width, m.Height),
	}
}

// FromImage は任意の image.Image を正規RGBA画像に変換する
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	m := NewImage(b.Dx(), b.Dy())
	rowLen := m.Width * 4

	if n, ok := src.(*image.NRGBA); ok {
		for y := 0; y < m.Height; y++ {
			start := n.PixOffset(b.Min.X, b.Min.Y+y)
			copy(m.Pix[y*rowLen:(y+1)*rowLen], n.Pix[start:start+rowLen])
		}
		return m
	}

	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			i := y*rowLen + x*4
			m.Pix[i+0] = c.R
			m.Pix[i+1] = c.G
			m.Pix[i+2] = c.B
			m.Pix[i+3] = c.A
		}
	}
	return m
}
