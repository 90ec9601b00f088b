package bmp

import "errors"

var (
	// ErrTooSmall はバッファがヘッダーを格納できないほど短い場合のエラー
	ErrTooSmall = errors.New("bmp: data too small")

	// ErrBadSignature は先頭2バイトが "BM" でない場合のエラー
	ErrBadSignature = errors.New("bmp: invalid signature")

	// ErrUnsupportedHeader はDIBヘッダーサイズが40未満の場合のエラー
	ErrUnsupportedHeader = errors.New("bmp: unsupported DIB header size")

	// ErrUnsupportedCompression は BI_RGB / BI_BITFIELDS 以外の圧縮方式のエラー
	ErrUnsupportedCompression = errors.New("bmp: unsupported compression")

	// ErrUnsupportedBitDepth は 1, 4, 8, 16, 24, 32 以外のビット深度のエラー
	ErrUnsupportedBitDepth = errors.New("bmp: unsupported bits per pixel")

	// ErrInvalidDimensions は幅または高さが不正な場合のエラー
	ErrInvalidDimensions = errors.New("bmp: invalid dimensions")

	// ErrColorTableTruncated はカラーテーブルがバッファに収まらない場合のエラー
	ErrColorTableTruncated = errors.New("bmp: data too small for color table")

	// ErrPixelDataTruncated はピクセル配列がバッファに収まらない場合のエラー
	ErrPixelDataTruncated = errors.New("bmp: data too small for pixel array")

	// ErrLengthMismatch はRGBAバッファの長さが width*height*4 と一致しない場合のエラー
	ErrLengthMismatch = errors.New("bmp: data length mismatch")

	// ErrTooLarge はエンコード結果が BMP のサイズ上限を超える場合のエラー
	ErrTooLarge = errors.New("bmp: image too large")
)
