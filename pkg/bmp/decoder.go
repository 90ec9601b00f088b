package bmp

import (
	"fmt"
	"math/bits"
)

// decoder は1回のデコード呼び出しの状態を保持する
type decoder struct {
	data     []byte
	header   *Header
	width    int
	height   int
	bitCount int
	topDown  bool
	stride   int
	palette  []byte    // (B, G, R, reserved) のエントリ列
	masks    [4]uint32 // R, G, B, A
}

// Decode はBMPデータを正規RGBA画像にデコードする。
// 検証はすべて出力バッファの確保前に行い、最初に見つかった問題を返す。
func Decode(data []byte) (*Image, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return nil, err
	}

	// 圧縮方式を確認
	switch h.Compression {
	case biRGB, biBitfields:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedCompression, h.Compression)
	}

	width, height := h.Dimensions()
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	switch h.BitCount {
	case 1, 4, 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, h.BitCount)
	}

	d := &decoder{
		data:     data,
		header:   h,
		width:    width,
		height:   height,
		bitCount: int(h.BitCount),
		topDown:  h.TopDown(),
		stride:   rowStride(int(h.BitCount), width),
		masks:    [4]uint32{h.RedMask, h.GreenMask, h.BlueMask, h.AlphaMask},
	}

	if d.bitCount <= 8 {
		if err := d.readPalette(); err != nil {
			return nil, err
		}
	}
	if err := d.checkPixelArray(); err != nil {
		return nil, err
	}

	img := NewImage(width, height)
	d.decodeRows(img)
	return img, nil
}

// readPalette はDIBヘッダー直後の 2^bitCount 個のエントリを参照する
func (d *decoder) readPalette() error {
	start := fileHeaderLen + int(d.header.DIBSize)
	end := start + (1<<d.bitCount)*4
	if len(d.data) < end {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrColorTableTruncated, end, len(d.data))
	}
	d.palette = d.data[start:end]
	return nil
}

// checkPixelArray はすべての行がバッファ内にあることを確認する。
// 最終行の行末パディングは省略されていてもよい。
func (d *decoder) checkPixelArray() error {
	offset := int(d.header.DataOffset)
	rowBytes := (d.bitCount*d.width + 7) / 8
	avail := len(d.data) - offset - rowBytes
	if avail < 0 || (d.height > 1 && avail/d.stride < d.height-1) {
		return fmt.Errorf("%w: %d rows of %d bytes at offset %d, have %d bytes",
			ErrPixelDataTruncated, d.height, d.stride, offset, len(d.data))
	}
	return nil
}

func (d *decoder) decodeRows(img *Image) {
	offset := int(d.header.DataOffset)
	outStride := d.width * 4
	bitfields := d.header.Compression == biBitfields

	for y := 0; y < d.height; y++ {
		// BMPはボトムアップ形式（topDownでない場合）
		srcY := d.height - 1 - y
		if d.topDown {
			srcY = y
		}
		row := d.data[offset+srcY*d.stride:]
		out := img.Pix[y*outStride : (y+1)*outStride]

		switch d.bitCount {
		case 1:
			for x := 0; x < d.width; x++ {
				idx := (row[x/8] >> (7 - uint(x%8))) & 0x01
				d.putPaletteColor(out[x*4:], idx)
			}
		case 4:
			for x := 0; x < d.width; x++ {
				var idx uint8
				if x%2 == 0 {
					idx = row[x/2] >> 4
				} else {
					idx = row[x/2] & 0x0F
				}
				d.putPaletteColor(out[x*4:], idx)
			}
		case 8:
			for x := 0; x < d.width; x++ {
				d.putPaletteColor(out[x*4:], row[x])
			}
		case 16:
			// 5-5-5。下位ビットの補完はしない
			for x := 0; x < d.width; x++ {
				v := readU16(row, x*2)
				out[x*4+0] = uint8(((v >> 10) & 0x1f) << 3)
				out[x*4+1] = uint8(((v >> 5) & 0x1f) << 3)
				out[x*4+2] = uint8((v & 0x1f) << 3)
				out[x*4+3] = 0xff
			}
		case 24:
			for x := 0; x < d.width; x++ {
				out[x*4+0] = row[x*3+2]
				out[x*4+1] = row[x*3+1]
				out[x*4+2] = row[x*3]
				out[x*4+3] = 0xff
			}
		case 32:
			if bitfields {
				d.decodeBitfieldsRow(row, out)
				continue
			}
			for x := 0; x < d.width; x++ {
				out[x*4+0] = row[x*4+2]
				out[x*4+1] = row[x*4+1]
				out[x*4+2] = row[x*4]
				out[x*4+3] = row[x*4+3]
			}
		}
	}
}

func (d *decoder) decodeBitfieldsRow(row, out []byte) {
	for x := 0; x < d.width; x++ {
		v := readU32(row, x*4)
		out[x*4+0] = ExtractChannel(v, d.masks[0])
		out[x*4+1] = ExtractChannel(v, d.masks[1])
		out[x*4+2] = ExtractChannel(v, d.masks[2])
		if d.masks[3] == 0 {
			out[x*4+3] = 0xff
		} else {
			out[x*4+3] = ExtractChannel(v, d.masks[3])
		}
	}
}

func (d *decoder) putPaletteColor(dst []byte, idx uint8) {
	e := d.palette[int(idx)*4:]
	dst[0] = e[2]
	dst[1] = e[1]
	dst[2] = e[0]
	dst[3] = 0xff
}

// ExtractChannel はマスクで示されたビットを取り出し、8ビットに揃える。
// マスクが8ビット以上なら上位8ビットを、8ビット未満なら左詰めした値を返す。
// マスクが0のときは0。
func ExtractChannel(value, mask uint32) uint8 {
	if mask == 0 {
		return 0
	}
	shift := bits.TrailingZeros32(mask)
	n := bits.OnesCount32(mask)
	v := (value & mask) >> shift
	if n >= 8 {
		return uint8(v >> (n - 8))
	}
	return uint8(v << (8 - n))
}
