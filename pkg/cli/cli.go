// Package cli はコマンドライン引数、環境変数、設定ファイルから実行設定を組み立てる。
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/zurustar/mconv/pkg/codec"
	"github.com/zurustar/mconv/pkg/logger"
	"github.com/zurustar/mconv/pkg/resize"
)

// コマンド名
const (
	CommandInfo    = "info"
	CommandConvert = "convert"
	CommandResize  = "resize"
	CommandBatch   = "batch"
	CommandVersion = "version"
)

// 既定値
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
	DefaultKernel    = resize.Lanczos3
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	Command    string        // 実行するコマンド
	Args       []string      // コマンドの位置引数
	LogLevel   string        // ログレベル（debug, info, warn, error）
	LogFormat  string        // ログ形式（text, json）
	ConfigPath string        // YAML設定ファイルのパス
	Jobs       int           // batch の並列数
	Kernel     resize.Kernel // リサイズのカーネル
	Width      *Dimension    // 出力幅の式（nil は未指定）
	Height     *Dimension    // 出力高さの式（nil は未指定）
	OutDir     string        // batch の出力ディレクトリ
	Format     codec.Format  // batch の出力形式（空なら入力と同じ）
	ShowHelp   bool          // ヘルプ表示フラグ
}

// 短縮形と正式名の対応
var flagAliases = map[string]string{
	"l": "log-level",
	"c": "config",
	"j": "jobs",
	"k": "kernel",
	"W": "width",
	"H": "height",
	"o": "out",
	"f": "format",
	"h": "help",
}

// 値を取らないフラグ
var boolFlags = map[string]bool{
	"-h":     true,
	"--help": true,
	"-help":  true,
}

type rawFlags struct {
	logLevel   string
	logFormat  string
	configPath string
	jobs       int
	kernel     string
	width      string
	height     string
	out        string
	format     string
}

// ParseArgs コマンドライン引数を解析してConfigを返す。
// 優先順位はコマンドラインフラグ、環境変数、設定ファイル、既定値の順。
func ParseArgs(args []string) (*Config, error) {
	reorderedArgs := reorderArgs(args)

	fs := flag.NewFlagSet("mconv", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	config := &Config{}
	var raw rawFlags

	fs.StringVar(&raw.logLevel, "log-level", "", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&raw.logLevel, "l", "", "ログレベル（短縮形）")
	fs.StringVar(&raw.logFormat, "log-format", "", "ログ形式（text, json）")
	fs.StringVar(&raw.configPath, "config", "", "YAML設定ファイル")
	fs.StringVar(&raw.configPath, "c", "", "YAML設定ファイル（短縮形）")
	fs.IntVar(&raw.jobs, "jobs", 0, "batch の並列数")
	fs.IntVar(&raw.jobs, "j", 0, "batch の並列数（短縮形）")
	fs.StringVar(&raw.kernel, "kernel", "", "リサイズのカーネル")
	fs.StringVar(&raw.kernel, "k", "", "リサイズのカーネル（短縮形）")
	fs.StringVar(&raw.width, "width", "", "出力幅（整数または式）")
	fs.StringVar(&raw.width, "W", "", "出力幅（短縮形）")
	fs.StringVar(&raw.height, "height", "", "出力高さ（整数または式）")
	fs.StringVar(&raw.height, "H", "", "出力高さ（短縮形）")
	fs.StringVar(&raw.out, "out", "", "batch の出力ディレクトリ")
	fs.StringVar(&raw.out, "o", "", "batch の出力ディレクトリ（短縮形）")
	fs.StringVar(&raw.format, "format", "", "batch の出力形式")
	fs.StringVar(&raw.format, "f", "", "batch の出力形式（短縮形）")
	fs.BoolVar(&config.ShowHelp, "help", false, "ヘルプを表示")
	fs.BoolVar(&config.ShowHelp, "h", false, "ヘルプを表示（短縮形）")

	if err := fs.Parse(reorderedArgs); err != nil {
		return nil, err
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) {
		name := f.Name
		if long, ok := flagAliases[name]; ok {
			name = long
		}
		explicit[name] = true
	})

	// 既定値
	config.LogLevel = DefaultLogLevel
	config.LogFormat = DefaultLogFormat
	config.Jobs = runtime.NumCPU()
	kernelName := DefaultKernel.String()
	formatName := ""

	// 設定ファイル
	config.ConfigPath = raw.configPath
	if !explicit["config"] {
		config.ConfigPath = os.Getenv("MCONV_CONFIG")
	}
	if config.ConfigPath != "" {
		fc, err := LoadFile(config.ConfigPath)
		if err != nil {
			return nil, err
		}
		if fc.LogLevel != "" {
			config.LogLevel = strings.ToLower(fc.LogLevel)
		}
		if fc.LogFormat != "" {
			config.LogFormat = strings.ToLower(fc.LogFormat)
		}
		if fc.Jobs != 0 {
			config.Jobs = fc.Jobs
		}
		if fc.Kernel != "" {
			kernelName = fc.Kernel
		}
		if fc.Format != "" {
			formatName = fc.Format
		}
		if fc.Out != "" {
			config.OutDir = fc.Out
		}
	}

	// 環境変数（コマンドラインフラグが優先）
	if v := os.Getenv("MCONV_LOG_LEVEL"); v != "" {
		config.LogLevel = strings.ToLower(v)
	}
	if v := os.Getenv("MCONV_LOG_FORMAT"); v != "" {
		config.LogFormat = strings.ToLower(v)
	}
	if v := os.Getenv("MCONV_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.Jobs = n
		}
	}
	if v := os.Getenv("MCONV_KERNEL"); v != "" {
		kernelName = v
	}

	// コマンドラインフラグ
	if explicit["log-level"] {
		config.LogLevel = strings.ToLower(raw.logLevel)
	}
	if explicit["log-format"] {
		config.LogFormat = strings.ToLower(raw.logFormat)
	}
	if explicit["jobs"] {
		config.Jobs = raw.jobs
	}
	if explicit["kernel"] {
		kernelName = raw.kernel
	}
	if explicit["format"] {
		formatName = raw.format
	}
	if explicit["out"] {
		config.OutDir = raw.out
	}

	if err := config.resolve(kernelName, formatName, raw); err != nil {
		return nil, err
	}

	// 位置引数（コマンドとその引数）
	if fs.NArg() == 0 {
		config.ShowHelp = true
		return config, nil
	}
	config.Command = fs.Arg(0)
	config.Args = fs.Args()[1:]

	if config.ShowHelp {
		return config, nil
	}
	if err := config.validateCommand(); err != nil {
		return nil, err
	}

	return config, nil
}

// resolve は文字列で集めた設定を検証して型付きの値に変換する
func (c *Config) resolve(kernelName, formatName string, raw rawFlags) error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be positive, got %d", c.Jobs)
	}

	kernel, err := resize.ParseKernel(kernelName)
	if err != nil {
		return err
	}
	c.Kernel = kernel

	if formatName != "" {
		format, err := codec.ParseFormat(formatName)
		if err != nil {
			return err
		}
		if !format.CanEncode() {
			return fmt.Errorf("%w: %s", codec.ErrEncodeUnsupported, format)
		}
		c.Format = format
	}

	if raw.width != "" {
		if c.Width, err = ParseDimension(raw.width); err != nil {
			return fmt.Errorf("width: %w", err)
		}
	}
	if raw.height != "" {
		if c.Height, err = ParseDimension(raw.height); err != nil {
			return fmt.Errorf("height: %w", err)
		}
	}

	return nil
}

// validateCommand はコマンド名と位置引数の数を検証する
func (c *Config) validateCommand() error {
	n := len(c.Args)
	switch c.Command {
	case CommandInfo:
		if n == 0 {
			return fmt.Errorf("%s: at least one input is required", c.Command)
		}
	case CommandBatch:
		if n == 0 {
			return fmt.Errorf("%s: at least one input is required", c.Command)
		}
		if c.OutDir == "" {
			return fmt.Errorf("%s: -o/--out is required", c.Command)
		}
	case CommandConvert:
		if n != 2 {
			return fmt.Errorf("%s: expected <input> <output>, got %d arguments", c.Command, n)
		}
	case CommandResize:
		if n != 2 {
			return fmt.Errorf("%s: expected <input> <output>, got %d arguments", c.Command, n)
		}
		if c.Width == nil && c.Height == nil {
			return fmt.Errorf("%s: -W/--width or -H/--height is required", c.Command)
		}
	case CommandVersion:
		if n != 0 {
			return fmt.Errorf("%s: takes no arguments", c.Command)
		}
	default:
		return fmt.Errorf("unknown command: %s", c.Command)
	}
	return nil
}

// reorderArgs 引数を並べ替えて、フラグを前に、位置引数を後ろに配置する
func reorderArgs(args []string) []string {
	var flags []string
	var positional []string

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" 以降はすべて位置引数
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		if len(arg) > 1 && arg[0] == '-' {
			flags = append(flags, arg)

			// -W 640 のように値が次の引数にある場合
			if !strings.Contains(arg, "=") && !boolFlags[arg] &&
				i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}

	if len(positional) > 0 {
		flags = append(flags, "--")
	}
	return append(flags, positional...)
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `mconv - BMP decoder/encoder and RGBA resampler

Usage:
  mconv [options] <command> [arguments]

Commands:
  info <file>...              ヘッダーと寸法を表示
  convert <input> <output>    拡張子に応じて形式を変換
  resize <input> <output>     リサイズして保存（-W / -H が必要）
  batch <input>...            ファイルやディレクトリをまとめて変換・リサイズ
  version                     バージョンとスレッド対応を表示

Formats:
  bmp, png, tif/tiff, webp（読み込みのみ）, rgba
  .zst / .gz を付けると圧縮して読み書きする

Options:
  -W, --width <expr>          出力幅（例: 640, w/2, min(w, 640)）
  -H, --height <expr>         出力高さ（片方だけ指定すると縦横比を保つ）
  -k, --kernel <name>         nearest, bilinear, bicubic, lanczos3（デフォルト: %s）
  -j, --jobs <n>              batch の並列数（デフォルト: CPU数）
  -o, --out <dir>             batch の出力ディレクトリ
  -f, --format <ext>          batch の出力形式（デフォルト: 入力と同じ）
  -c, --config <file>         YAML設定ファイル
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: info）
  --log-format <format>       ログ形式: text, json（デフォルト: text）
  -h, --help                  このヘルプを表示

Environment Variables:
  MCONV_LOG_LEVEL=<level>     ログレベル
  MCONV_LOG_FORMAT=<format>   ログ形式
  MCONV_CONFIG=<file>         YAML設定ファイル
  MCONV_JOBS=<n>              batch の並列数
  MCONV_KERNEL=<name>         リサイズのカーネル

Examples:
  mconv info photo.bmp
  mconv convert photo.bmp photo.png
  mconv resize -W w/2 -k bicubic photo.bmp half.bmp
  mconv batch -j 4 -f png -o out/ -H 256 images/
`, DefaultKernel)
}
