package fileutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Compression はファイル全体にかける圧縮方式
type Compression int

const (
	// None は非圧縮
	None Compression = iota
	// Gzip は .gz
	Gzip
	// Zstd は .zst / .zstd
	Zstd
)

func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	default:
		return "none"
	}
}

// DetectCompression はパスのサフィックスから圧縮方式を判定する
func DetectCompression(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return Gzip
	case ".zst", ".zstd":
		return Zstd
	default:
		return None
	}
}

// TrimCompression は圧縮サフィックスを取り除いたパスを返す
func TrimCompression(path string) string {
	if DetectCompression(path) == None {
		return path
	}
	return strings.TrimSuffix(path, filepath.Ext(path))
}

func newZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func newZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

// バッチ変換で並行に使われるのでプールする
var zstdEncPool = sync.Pool{
	New: func() any {
		return newZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return newZstdDecoder()
	},
}

// Compress は data を c で圧縮する
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Zstd:
		enc := zstdEncPool.Get().(*zstd.Encoder)
		out := enc.EncodeAll(data, nil)
		zstdEncPool.Put(enc)
		return out, nil
	case Gzip:
		var buf bytes.Buffer
		zw, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
		if err != nil {
			return nil, err
		}
		if _, err := zw.Write(data); err != nil {
			return nil, fmt.Errorf("gzip write: %w", err)
		}
		if err := zw.Close(); err != nil {
			return nil, fmt.Errorf("gzip close: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown compression: %d", int(c))
	}
}

// Decompress は c で圧縮された data を展開する
func Decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case None:
		return data, nil
	case Zstd:
		if len(data) == 0 {
			return data, nil
		}
		dec := zstdDecPool.Get().(*zstd.Decoder)
		out, err := dec.DecodeAll(data, nil)
		zstdDecPool.Put(dec)
		if err != nil {
			return nil, fmt.Errorf("zstd decode: %w", err)
		}
		return out, nil
	case Gzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip header: %w", err)
		}
		defer zr.Close()
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip decode: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression: %d", int(c))
	}
}

// ReadFile はファイルを読み込み、サフィックスに応じて展開する。
// パスが見つからない場合は同じディレクトリを大文字小文字を無視して探す。
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		actual, findErr := FindFileCaseInsensitive(filepath.Dir(path), filepath.Base(path))
		if findErr != nil {
			return nil, err
		}
		path = actual
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	out, err := Decompress(data, DetectCompression(path))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress %s: %w", path, err)
	}
	return out, nil
}

// WriteFile はサフィックスに応じて圧縮し、ファイルに書き込む
func WriteFile(path string, data []byte) error {
	out, err := Compress(data, DetectCompression(path))
	if err != nil {
		return fmt.Errorf("failed to compress %s: %w", path, err)
	}
	return os.WriteFile(path, out, 0644)
}
