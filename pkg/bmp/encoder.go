package bmp

import (
	"fmt"
	"math"
)

const (
	encodeDataOffset     = fileHeaderLen + v4InfoHeaderLen
	encodePixelsPerMeter = 2835 // 約72DPI
)

// Encode はRGBAピクセルを 32 ビット BI_BITFIELDS のBMPにエンコードする。
// ヘッダーは BITMAPV4HEADER で、行はボトムアップに書き出す。
// 同じ入力からは常に同じバイト列が得られる。
func Encode(width, height int, pix []byte) ([]byte, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if width > 0 && uint64(height) > (math.MaxUint32-encodeDataOffset)/4/uint64(width) {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, width, height)
	}
	if expected := width * height * 4; len(pix) != expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, expected, len(pix))
	}

	// 32ビットの行は常に4バイト境界に揃っている
	stride := width * 4
	imageSize := stride * height
	fileSize := encodeDataOffset + imageSize
	out := make([]byte, fileSize)

	// ファイルヘッダー (14バイト)
	out[0] = 'B'
	out[1] = 'M'
	putU32(out, 2, uint32(fileSize))
	putU16(out, 6, 0)
	putU16(out, 8, 0)
	putU32(out, 10, encodeDataOffset)

	// BITMAPV4HEADER (108バイト)
	putU32(out, 14, v4InfoHeaderLen)
	putU32(out, 18, uint32(width))
	putU32(out, 22, uint32(height)) // 正の値はボトムアップ
	putU16(out, 26, 1)
	putU16(out, 28, 32)
	putU32(out, 30, biBitfields)
	putU32(out, 34, uint32(imageSize))
	putU32(out, 38, encodePixelsPerMeter)
	putU32(out, 42, encodePixelsPerMeter)
	putU32(out, 46, 0)
	putU32(out, 50, 0)
	putU32(out, 54, defaultRedMask)
	putU32(out, 58, defaultGreenMask)
	putU32(out, 62, defaultBlueMask)
	putU32(out, 66, defaultAlphaMask)
	putU32(out, 70, lcsSRGB)
	// 74..121: CIEXYZTRIPLE とガンマ。sRGBでは0のまま

	for y := 0; y < height; y++ {
		src := pix[(height-1-y)*stride : (height-y)*stride]
		dst := out[encodeDataOffset+y*stride : encodeDataOffset+(y+1)*stride]
		for x := 0; x < len(src); x += 4 {
			dst[x+0] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x]
			dst[x+3] = src[x+3]
		}
	}

	return out, nil
}
