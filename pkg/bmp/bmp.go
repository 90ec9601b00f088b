// Package bmp はBMPコンテナとRGBAピクセルバッファの相互変換を提供する。
//
// デコーダーは以下の形式をサポートする:
//   - 1, 4, 8 ビット（カラーテーブル付き）
//   - 16 ビット (5-5-5)
//   - 24 ビット
//   - 32 ビット (BI_RGB, BI_BITFIELDS)
//
// エンコーダーは常に BITMAPV4HEADER を使った 32 ビット BI_BITFIELDS
// （アルファ付き）を出力する。RLE圧縮はサポートしない。
//
// すべての関数は入力バッファのみを参照する純粋関数であり、
// 呼び出し間で状態を共有しないため並行に呼び出してよい。
package bmp

import (
	"encoding/binary"
	"fmt"
	"math"
)

// BMP圧縮方式の定数
const (
	biRGB       = 0 // 非圧縮
	biBitfields = 3 // チャンネルマスク
)

const (
	fileHeaderLen   = 14
	infoHeaderLen   = 40  // BITMAPINFOHEADER
	v4InfoHeaderLen = 108 // BITMAPV4HEADER
	minFileLen      = fileHeaderLen + infoHeaderLen
	packedHeaderLen = 8
)

// デフォルトのチャンネルマスク
const (
	defaultRedMask   = 0x00ff0000
	defaultGreenMask = 0x0000ff00
	defaultBlueMask  = 0x000000ff
	defaultAlphaMask = 0xff000000
)

// lcsSRGB は色空間タグ 'sRGB'
const lcsSRGB = 0x73524742

// Image はデコード結果の正規RGBA画像。
// Pix は上の行から順に並んだ (R, G, B, A) の列で、行パディングは持たない。
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// NewImage は透明な黒で初期化された width x height の画像を作成する
func NewImage(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*4),
	}
}

// Validate は Pix の長さが Width*Height*4 と一致するかを確認する
func (m *Image) Validate() error {
	expected, ok := pixLen(m.Width, m.Height)
	if !ok {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	if len(m.Pix) != expected {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, expected, len(m.Pix))
	}
	return nil
}

// Encode は画像を 32 ビットBMPにエンコードする
func (m *Image) Encode() ([]byte, error) {
	return Encode(m.Width, m.Height, m.Pix)
}

// Packed は先頭8バイトに幅と高さ（リトルエンディアン uint32）を置き、
// 続けてピクセルを並べた単一バッファを返す。
// 構造体を渡せない呼び出し境界向けの表現。
func (m *Image) Packed() []byte {
	out := make([]byte, packedHeaderLen+len(m.Pix))
	putU32(out, 0, uint32(m.Width))
	putU32(out, 4, uint32(m.Height))
	copy(out[packedHeaderLen:], m.Pix)
	return out
}

// ParsePacked は Packed が生成したバッファから画像を復元する。
// ピクセルはコピーされる。
func ParsePacked(data []byte) (*Image, error) {
	if len(data) < packedHeaderLen {
		return nil, fmt.Errorf("%w: packed buffer has %d bytes, need at least %d", ErrTooSmall, len(data), packedHeaderLen)
	}
	width := int(readU32(data, 0))
	height := int(readU32(data, 4))
	pix := data[packedHeaderLen:]
	expected, ok := pixLen(width, height)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pix) != expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, expected, len(pix))
	}
	m := &Image{Width: width, Height: height, Pix: make([]byte, len(pix))}
	copy(m.Pix, pix)
	return m, nil
}

// pixLen は width*height*4 を返す。負の寸法や int に収まらない場合は false。
func pixLen(width, height int) (int, bool) {
	if width < 0 || height < 0 {
		return 0, false
	}
	if height != 0 && width > math.MaxInt/4/height {
		return 0, false
	}
	return width * height * 4, true
}

// rowStride は4バイト境界にパディングされた1行のバイト数を返す
func rowStride(bitsPerPixel, width int) int {
	return ((bitsPerPixel*width + 31) / 32) * 4
}

func readU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off:])
}

func readU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func readI32(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:]))
}

func putU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:], v)
}

func putU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:], v)
}
