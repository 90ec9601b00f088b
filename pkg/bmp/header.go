package bmp

import "fmt"

// Header はBMPファイルヘッダーとDIBヘッダーの内容
type Header struct {
	FileSize        uint32 // ファイルサイズ
	DataOffset      uint32 // 画像データへのオフセット
	DIBSize         uint32 // DIBヘッダーサイズ
	Width           int32  // 画像の幅
	Height          int32  // 画像の高さ (負の場合はトップダウン)
	Planes          uint16 // プレーン数
	BitCount        uint16 // ビット深度
	Compression     uint32 // 圧縮方式
	ImageSize       uint32 // 画像データサイズ
	XPixelsPerMeter int32  // 水平解像度
	YPixelsPerMeter int32  // 垂直解像度
	ColorsUsed      uint32 // 使用色数
	ColorsImportant uint32 // 重要な色数

	// BI_BITFIELDS のチャンネルマスク。BI_BITFIELDS 以外ではデフォルト値。
	RedMask   uint32
	GreenMask uint32
	BlueMask  uint32
	AlphaMask uint32

	// ColorSpace は V4 以降のヘッダーにある色空間タグ。なければ0。
	ColorSpace uint32
}

// ReadHeader はファイル全体をデコードせずにヘッダーを解析する。
// 長さ、シグネチャ、DIBヘッダーサイズのみを検証する。
func ReadHeader(data []byte) (*Header, error) {
	if len(data) < minFileLen {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrTooSmall, len(data), minFileLen)
	}
	if data[0] != 'B' || data[1] != 'M' {
		return nil, fmt.Errorf("%w: %q", ErrBadSignature, data[0:2])
	}

	h := &Header{
		FileSize:   readU32(data, 2),
		DataOffset: readU32(data, 10),
		DIBSize:    readU32(data, 14),
	}
	if h.DIBSize < infoHeaderLen {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedHeader, h.DIBSize)
	}

	h.Width = readI32(data, 18)
	h.Height = readI32(data, 22)
	h.Planes = readU16(data, 26)
	h.BitCount = readU16(data, 28)
	h.Compression = readU32(data, 30)
	h.ImageSize = readU32(data, 34)
	h.XPixelsPerMeter = readI32(data, 38)
	h.YPixelsPerMeter = readI32(data, 42)
	h.ColorsUsed = readU32(data, 46)
	h.ColorsImportant = readU32(data, 50)

	h.readMasks(data)
	if h.DIBSize >= 60 && len(data) >= 74 {
		h.ColorSpace = readU32(data, 70)
	}
	return h, nil
}

// readMasks はチャンネルマスクを決定する。
// マスクがバッファに収まらない場合はデフォルト値のまま。
func (h *Header) readMasks(data []byte) {
	h.RedMask = defaultRedMask
	h.GreenMask = defaultGreenMask
	h.BlueMask = defaultBlueMask
	h.AlphaMask = defaultAlphaMask

	if h.Compression != biBitfields {
		return
	}

	switch {
	case h.DIBSize >= 52 && len(data) >= 66:
		// V2以降: マスクはヘッダー内
		h.RedMask = readU32(data, 54)
		h.GreenMask = readU32(data, 58)
		h.BlueMask = readU32(data, 62)
		if h.DIBSize >= 56 && len(data) >= 70 {
			h.AlphaMask = readU32(data, 66)
		}
	case h.DIBSize == infoHeaderLen && h.DataOffset >= minFileLen+12 && len(data) >= minFileLen+12:
		// BITMAPINFOHEADER の直後に置かれた3つのマスク。アルファはない。
		h.RedMask = readU32(data, 54)
		h.GreenMask = readU32(data, 58)
		h.BlueMask = readU32(data, 62)
		h.AlphaMask = 0
	}
}

// TopDown は行が上から順に格納されているかを返す
func (h *Header) TopDown() bool {
	return h.Height < 0
}

// Dimensions は幅と高さの絶対値を返す
func (h *Header) Dimensions() (width, height int) {
	return absInt32(h.Width), absInt32(h.Height)
}

// CompressionName は圧縮方式の名前を返す
func (h *Header) CompressionName() string {
	switch h.Compression {
	case biRGB:
		return "BI_RGB"
	case 1:
		return "BI_RLE8"
	case 2:
		return "BI_RLE4"
	case biBitfields:
		return "BI_BITFIELDS"
	case 4:
		return "BI_JPEG"
	case 5:
		return "BI_PNG"
	default:
		return fmt.Sprintf("unknown(%d)", h.Compression)
	}
}

// DecodeConfig はDIBヘッダーから幅と高さだけを読み取る。
// 26バイト以上と正しいシグネチャがあればよい。
func DecodeConfig(data []byte) (width, height int, err error) {
	if len(data) < 26 {
		return 0, 0, fmt.Errorf("%w: %d bytes, need at least 26", ErrTooSmall, len(data))
	}
	if data[0] != 'B' || data[1] != 'M' {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadSignature, data[0:2])
	}
	return absInt32(readI32(data, 18)), absInt32(readI32(data, 22)), nil
}

func absInt32(v int32) int {
	if v < 0 {
		return -int(v)
	}
	return int(v)
}
