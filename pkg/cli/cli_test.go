package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/zurustar/mconv/pkg/codec"
	"github.com/zurustar/mconv/pkg/resize"
)

// clearEnv はテストが環境変数の影響を受けないようにする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MCONV_LOG_LEVEL", "MCONV_LOG_FORMAT", "MCONV_CONFIG", "MCONV_JOBS", "MCONV_KERNEL"} {
		t.Setenv(key, "")
	}
}

func TestParseArgs_ValidArgs(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name     string
		args     []string
		command  string
		cmdArgs  []string
		logLevel string
		kernel   resize.Kernel
		jobs     int
		format   codec.Format
		outDir   string
		showHelp bool
		width    string
		height   string
	}{
		{
			name:     "引数なしはヘルプ",
			args:     []string{},
			logLevel: "info",
			kernel:   resize.Lanczos3,
			jobs:     runtime.NumCPU(),
			showHelp: true,
		},
		{
			name:     "info",
			args:     []string{"info", "a.bmp", "b.bmp"},
			command:  "info",
			cmdArgs:  []string{"a.bmp", "b.bmp"},
			logLevel: "info",
			kernel:   resize.Lanczos3,
			jobs:     runtime.NumCPU(),
		},
		{
			name:     "resize（フラグが後ろ）",
			args:     []string{"resize", "in.bmp", "out.bmp", "-W", "w/2", "-k", "bicubic"},
			command:  "resize",
			cmdArgs:  []string{"in.bmp", "out.bmp"},
			logLevel: "info",
			kernel:   resize.Bicubic,
			jobs:     runtime.NumCPU(),
			width:    "w/2",
		},
		{
			name:     "resize（長い形式と = 記法）",
			args:     []string{"--height=120", "--kernel", "nearest", "resize", "in.png", "out.tif"},
			command:  "resize",
			cmdArgs:  []string{"in.png", "out.tif"},
			logLevel: "info",
			kernel:   resize.Nearest,
			jobs:     runtime.NumCPU(),
			height:   "120",
		},
		{
			name:     "batch",
			args:     []string{"batch", "-j", "3", "-o", "out", "-f", "PNG", "-l", "debug", "images"},
			command:  "batch",
			cmdArgs:  []string{"images"},
			logLevel: "debug",
			kernel:   resize.Lanczos3,
			jobs:     3,
			format:   codec.PNG,
			outDir:   "out",
		},
		{
			name:     "ヘルプ表示（短縮形）",
			args:     []string{"-h", "resize"},
			command:  "resize",
			cmdArgs:  []string{},
			logLevel: "info",
			kernel:   resize.Lanczos3,
			jobs:     runtime.NumCPU(),
			showHelp: true,
		},
		{
			name:     "version",
			args:     []string{"version"},
			command:  "version",
			cmdArgs:  []string{},
			logLevel: "info",
			kernel:   resize.Lanczos3,
			jobs:     runtime.NumCPU(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := ParseArgs(tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if config.Command != tt.command {
				t.Errorf("Command = %q, want %q", config.Command, tt.command)
			}
			if len(config.Args) != len(tt.cmdArgs) || !slices.Equal(config.Args, tt.cmdArgs) {
				t.Errorf("Args = %v, want %v", config.Args, tt.cmdArgs)
			}
			if config.LogLevel != tt.logLevel {
				t.Errorf("LogLevel = %q, want %q", config.LogLevel, tt.logLevel)
			}
			if config.LogFormat != "text" {
				t.Errorf("LogFormat = %q, want text", config.LogFormat)
			}
			if config.Kernel != tt.kernel {
				t.Errorf("Kernel = %v, want %v", config.Kernel, tt.kernel)
			}
			if config.Jobs != tt.jobs {
				t.Errorf("Jobs = %d, want %d", config.Jobs, tt.jobs)
			}
			if config.Format != tt.format {
				t.Errorf("Format = %q, want %q", config.Format, tt.format)
			}
			if config.OutDir != tt.outDir {
				t.Errorf("OutDir = %q, want %q", config.OutDir, tt.outDir)
			}
			if config.ShowHelp != tt.showHelp {
				t.Errorf("ShowHelp = %v, want %v", config.ShowHelp, tt.showHelp)
			}
			if got := dimString(config.Width); got != tt.width {
				t.Errorf("Width = %q, want %q", got, tt.width)
			}
			if got := dimString(config.Height); got != tt.height {
				t.Errorf("Height = %q, want %q", got, tt.height)
			}
		})
	}
}

func dimString(d *Dimension) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func TestParseArgs_InvalidArgs(t *testing.T) {
	clearEnv(t)

	tests := []struct {
		name string
		args []string
	}{
		{"無効なログレベル", []string{"--log-level", "invalid", "version"}},
		{"無効なログレベル（短縮形）", []string{"-l", "trace", "version"}},
		{"無効なログ形式", []string{"--log-format", "xml", "version"}},
		{"並列数0", []string{"-j", "0", "batch", "in"}},
		{"未知のカーネル", []string{"-k", "gaussian", "resize", "-W", "10", "a.bmp", "b.bmp"}},
		{"未知の形式", []string{"-f", "gif", "batch", "in"}},
		{"書き込めない形式", []string{"-f", "webp", "batch", "in"}},
		{"不正な幅の式", []string{"-W", "w/", "resize", "a.bmp", "b.bmp"}},
		{"未知の変数", []string{"-H", "x*2", "resize", "a.bmp", "b.bmp"}},
		{"未知のコマンド", []string{"explode"}},
		{"未知のフラグ", []string{"--frobnicate", "version"}},
		{"convert の引数不足", []string{"convert", "a.bmp"}},
		{"resize の寸法なし", []string{"resize", "a.bmp", "b.bmp"}},
		{"info の引数なし", []string{"info"}},
		{"batch の出力先なし", []string{"batch", "images"}},
		{"version に引数", []string{"version", "extra"}},
		{"存在しない設定ファイル", []string{"-c", "/nonexistent/mconv.yaml", "version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseArgs(tt.args); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseArgs_Precedence(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "mconv.yaml")
	yamlData := `log_level: warn
log_format: json
jobs: 2
kernel: bilinear
format: tiff
out: from-file
`
	if err := os.WriteFile(configPath, []byte(yamlData), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("設定ファイル", func(t *testing.T) {
		config, err := ParseArgs([]string{"-c", configPath, "version"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.LogLevel != "warn" || config.LogFormat != "json" || config.Jobs != 2 ||
			config.Kernel != resize.Bilinear || config.Format != codec.TIFF || config.OutDir != "from-file" {
			t.Errorf("unexpected config: %+v", config)
		}
	})

	t.Run("環境変数は設定ファイルより優先", func(t *testing.T) {
		t.Setenv("MCONV_CONFIG", configPath)
		t.Setenv("MCONV_LOG_LEVEL", "ERROR")
		t.Setenv("MCONV_JOBS", "5")
		t.Setenv("MCONV_KERNEL", "nearest")

		config, err := ParseArgs([]string{"version"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.ConfigPath != configPath {
			t.Errorf("ConfigPath = %q, want %q", config.ConfigPath, configPath)
		}
		if config.LogLevel != "error" || config.Jobs != 5 || config.Kernel != resize.Nearest {
			t.Errorf("unexpected config: %+v", config)
		}
		if config.LogFormat != "json" {
			t.Errorf("LogFormat = %q, want json from file", config.LogFormat)
		}
	})

	t.Run("フラグは環境変数より優先", func(t *testing.T) {
		t.Setenv("MCONV_LOG_LEVEL", "error")
		t.Setenv("MCONV_JOBS", "5")
		t.Setenv("MCONV_KERNEL", "nearest")

		config, err := ParseArgs([]string{"-c", configPath, "-l", "debug", "-j", "7", "-k", "lanczos", "-o", "cli", "version"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.LogLevel != "debug" || config.Jobs != 7 || config.Kernel != resize.Lanczos3 || config.OutDir != "cli" {
			t.Errorf("unexpected config: %+v", config)
		}
	})

	t.Run("不正な環境変数の並列数は無視", func(t *testing.T) {
		t.Setenv("MCONV_JOBS", "many")

		config, err := ParseArgs([]string{"version"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Jobs != runtime.NumCPU() {
			t.Errorf("Jobs = %d, want %d", config.Jobs, runtime.NumCPU())
		}
	})

	t.Run("未知のキー", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(bad, []byte("colour: red\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ParseArgs([]string{"-c", bad, "version"}); err == nil {
			t.Error("expected error for unknown key")
		}
	})

	t.Run("型の誤り", func(t *testing.T) {
		bad := filepath.Join(dir, "type.yaml")
		if err := os.WriteFile(bad, []byte("jobs: lots\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ParseArgs([]string{"-c", bad, "version"}); err == nil {
			t.Error("expected error for wrong type")
		}
	})
}

func TestReorderArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "フラグを前へ",
			args: []string{"resize", "a.bmp", "-W", "10", "b.bmp"},
			want: []string{"-W", "10", "--", "resize", "a.bmp", "b.bmp"},
		},
		{
			name: "ブール型フラグは値を取らない",
			args: []string{"-h", "info"},
			want: []string{"-h", "--", "info"},
		},
		{
			name: "= 記法",
			args: []string{"--width=5", "resize"},
			want: []string{"--width=5", "--", "resize"},
		},
		{
			name: "-- 以降は位置引数",
			args: []string{"info", "--", "-odd.bmp"},
			want: []string{"--", "info", "-odd.bmp"},
		},
		{
			name: "位置引数なし",
			args: []string{"-l", "debug"},
			want: []string{"-l", "debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reorderArgs(tt.args); !slices.Equal(got, tt.want) {
				t.Errorf("reorderArgs(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestPrintHelp(t *testing.T) {
	var buf bytes.Buffer
	PrintHelp(&buf)

	out := buf.String()
	for _, want := range []string{"mconv", "resize", "--kernel", "MCONV_JOBS", "lanczos3"} {
		if !strings.Contains(out, want) {
			t.Errorf("help text does not contain %q", want)
		}
	}
}
