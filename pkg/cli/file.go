package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// FileConfig は -c / --config で指定するYAML設定ファイルの内容。
// 空の項目は組み込みの既定値のままになる。
type FileConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Jobs      int    `yaml:"jobs"`
	Kernel    string `yaml:"kernel"`
	Format    string `yaml:"format"`
	Out       string `yaml:"out"`
}

// LoadFile はYAML設定ファイルを読み込む。未知のキーはエラーにする。
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc FileConfig
	if err := yaml.UnmarshalStrict(data, &fc); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &fc, nil
}
