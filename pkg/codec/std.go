package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/zurustar/mconv/pkg/bmp"
	"golang.org/x/image/tiff"
)

// stdDecoder は image.Image を返すデコーダを bmp.Image 用に包む
func stdDecoder(decode func(io.Reader) (image.Image, error)) func([]byte) (*bmp.Image, error) {
	return func(data []byte) (*bmp.Image, error) {
		img, err := decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return bmp.FromImage(img), nil
	}
}

func stdConfig(config func(io.Reader) (image.Config, error)) func([]byte) (int, int, error) {
	return func(data []byte) (int, int, error) {
		cfg, err := config(bytes.NewReader(data))
		if err != nil {
			return 0, 0, err
		}
		return cfg.Width, cfg.Height, nil
	}
}

func packedConfig(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("%w: packed header needs 8 bytes, got %d", bmp.ErrTooSmall, len(data))
	}
	return int(binary.LittleEndian.Uint32(data[0:4])), int(binary.LittleEndian.Uint32(data[4:8])), nil
}

func encodePNG(img *bmp.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img.NRGBA()); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeTIFF(img *bmp.Image) ([]byte, error) {
	if err := img.Validate(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tiff.Encode(&buf, img.NRGBA(), &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return nil, fmt.Errorf("tiff encode: %w", err)
	}
	return buf.Bytes(), nil
}
