// Package fileutil は画像ファイルの読み書きと入力ファイルの列挙を提供する。
package fileutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FindFileCaseInsensitive は dir の中から大文字小文字を無視して filename を探し、
// 実際のパスを返す。
//
// 例:
//
//	path, err := FindFileCaseInsensitive("/path/to/dir", "PHOTO.BMP")
//	// "photo.bmp", "Photo.Bmp" などにマッチする
func FindFileCaseInsensitive(dir, filename string) (string, error) {
	searchName := strings.ToLower(filename)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(entry.Name()) == searchName {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("file not found: %s (searched in %s): %w", filename, dir, fs.ErrNotExist)
}

// Ext は圧縮サフィックスを除いた小文字の拡張子（ドットなし）を返す。
// "a.BMP.zst" は "bmp" になる。
func Ext(path string) string {
	base := TrimCompression(path)
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(base), "."))
}

// Collect は paths を入力ファイルの一覧に展開する。
//
// ファイルはそのまま追加する。ディレクトリは再帰的に走査し、
// 拡張子が exts のいずれか（大文字小文字を無視）に一致するファイルを
// パス順に追加する。exts が空ならすべてのファイルを追加する。
func Collect(paths []string, exts []string) ([]string, error) {
	wanted := make([]string, 0, len(exts))
	for _, ext := range exts {
		wanted = append(wanted, strings.ToLower(strings.TrimPrefix(ext, ".")))
	}

	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}

		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		var found []string
		err = filepath.WalkDir(p, func(walkPath string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if len(wanted) == 0 || slices.Contains(wanted, Ext(walkPath)) {
				found = append(found, walkPath)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}

		slices.Sort(found)
		files = append(files, found...)
	}

	return files, nil
}
