package bmp

import (
	"encoding/binary"
	"testing"
)

// testBMP はテスト用BMPの組み立て方を記述する
type testBMP struct {
	bitCount    uint16
	compression uint32
	width       int32
	height      int32     // 負の場合はトップダウン
	dibSize     uint32    // 0 のときは 40
	palette     [][3]byte // (R, G, B)。2^bitCount 個まで0で埋める
	masks       []uint32  // dibSize >= 52 ならヘッダー内、40 ならヘッダー直後に書く
	rows        [][]byte  // 上から順の各行（パディングなし）
}

// buildBMP は testBMP からBMPのバイト列を組み立てる
func buildBMP(t *testing.T, s testBMP) []byte {
	t.Helper()

	dib := s.dibSize
	if dib == 0 {
		dib = infoHeaderLen
	}
	le := binary.LittleEndian

	header := make([]byte, fileHeaderLen+int(dib))
	header[0], header[1] = 'B', 'M'
	le.PutUint32(header[14:], dib)
	le.PutUint32(header[18:], uint32(s.width))
	le.PutUint32(header[22:], uint32(s.height))
	le.PutUint16(header[26:], 1)
	le.PutUint16(header[28:], s.bitCount)
	le.PutUint32(header[30:], s.compression)

	var extra []byte
	if len(s.masks) > 0 {
		if dib >= 52 {
			for i, m := range s.masks {
				if 54+i*4+4 <= len(header) {
					le.PutUint32(header[54+i*4:], m)
				}
			}
		} else {
			extra = make([]byte, len(s.masks)*4)
			for i, m := range s.masks {
				le.PutUint32(extra[i*4:], m)
			}
		}
	}

	var palette []byte
	if s.bitCount <= 8 {
		palette = make([]byte, (1<<s.bitCount)*4)
		for i, c := range s.palette {
			palette[i*4+0] = c[2]
			palette[i*4+1] = c[1]
			palette[i*4+2] = c[0]
		}
	}

	height := int(s.height)
	topDown := height < 0
	if topDown {
		height = -height
	}
	width := int(s.width)
	if width < 0 {
		width = -width
	}
	stride := rowStride(int(s.bitCount), width)
	pixels := make([]byte, stride*height)
	for i := 0; i < height && i < len(s.rows); i++ {
		// i番目に格納される行
		logical := height - 1 - i
		if topDown {
			logical = i
		}
		if logical < len(s.rows) {
			copy(pixels[i*stride:(i+1)*stride], s.rows[logical])
		}
	}

	offset := len(header) + len(extra) + len(palette)
	le.PutUint32(header[10:], uint32(offset))
	le.PutUint32(header[2:], uint32(offset+len(pixels)))

	out := make([]byte, 0, offset+len(pixels))
	out = append(out, header...)
	out = append(out, extra...)
	out = append(out, palette...)
	out = append(out, pixels...)
	return out
}

// pixelAt は正規RGBA画像の (x, y) のピクセルを返す
func pixelAt(m *Image, x, y int) [4]byte {
	i := (y*m.Width + x) * 4
	return [4]byte{m.Pix[i], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3]}
}
