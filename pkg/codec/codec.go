// Package codec はファイル形式ごとのデコーダとエンコーダを束ねる。
//
// どの形式も bmp.Image（上から順の非乗算RGBA）を介して変換する。
package codec

import (
	"errors"
	"fmt"
	"image/png"
	"slices"
	"strings"

	"github.com/zurustar/mconv/pkg/bmp"
	"github.com/zurustar/mconv/pkg/fileutil"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// Format は画像ファイル形式の名前
type Format string

const (
	BMP  Format = "bmp"
	PNG  Format = "png"
	TIFF Format = "tiff"
	WebP Format = "webp"
	// RGBA は幅・高さの8バイトヘッダーに続く生のRGBAピクセル
	RGBA Format = "rgba"
)

var (
	// ErrUnknownFormat は対応していない形式が指定された場合のエラー
	ErrUnknownFormat = errors.New("codec: unknown format")

	// ErrEncodeUnsupported は読み込み専用の形式に書き込もうとした場合のエラー
	ErrEncodeUnsupported = errors.New("codec: encoding not supported")
)

type codec struct {
	decode func(data []byte) (*bmp.Image, error)
	config func(data []byte) (width, height int, err error)
	encode func(img *bmp.Image) ([]byte, error)
}

var codecs = map[Format]codec{
	BMP: {
		decode: bmp.Decode,
		config: bmp.DecodeConfig,
		encode: (*bmp.Image).Encode,
	},
	PNG: {
		decode: stdDecoder(png.Decode),
		config: stdConfig(png.DecodeConfig),
		encode: encodePNG,
	},
	TIFF: {
		decode: stdDecoder(tiff.Decode),
		config: stdConfig(tiff.DecodeConfig),
		encode: encodeTIFF,
	},
	WebP: {
		decode: stdDecoder(webp.Decode),
		config: stdConfig(webp.DecodeConfig),
	},
	RGBA: {
		decode: bmp.ParsePacked,
		config: packedConfig,
		encode: func(img *bmp.Image) ([]byte, error) {
			if err := img.Validate(); err != nil {
				return nil, err
			}
			return img.Packed(), nil
		},
	},
}

var aliases = map[string]Format{
	"tif": TIFF,
	"raw": RGBA,
}

// Formats は対応している形式を名前順で返す
func Formats() []Format {
	formats := make([]Format, 0, len(codecs))
	for f := range codecs {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// Extensions は入力として認識する拡張子（別名を含む）を返す
func Extensions() []string {
	exts := make([]string, 0, len(codecs)+len(aliases))
	for _, f := range Formats() {
		exts = append(exts, string(f))
	}
	for alias := range aliases {
		exts = append(exts, alias)
	}
	slices.Sort(exts)
	return exts
}

// ParseFormat は形式名（大文字小文字と先頭のドットを無視）を Format に変換する
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), "."))
	if f, ok := aliases[key]; ok {
		return f, nil
	}
	if _, ok := codecs[Format(key)]; ok {
		return Format(key), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// FormatFromPath は拡張子から形式を判定する。".zst" や ".gz" は無視する。
func FormatFromPath(path string) (Format, error) {
	ext := fileutil.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: no extension in %s", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// CanEncode は形式が書き込みに対応しているかを返す
func (f Format) CanEncode() bool {
	return codecs[f].encode != nil
}

// Decode は data を f としてデコードする
func Decode(data []byte, f Format) (*bmp.Image, error) {
	c, ok := codecs[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	return c.decode(data)
}

// DecodeConfig はピクセルをデコードせずに幅と高さを返す
func DecodeConfig(data []byte, f Format) (width, height int, err error) {
	c, ok := codecs[f]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	return c.config(data)
}

// Encode は img を f でエンコードする
func Encode(img *bmp.Image, f Format) ([]byte, error) {
	c, ok := codecs[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if c.encode == nil {
		return nil, fmt.Errorf("%w: %s", ErrEncodeUnsupported, f)
	}
	return c.encode(img)
}
