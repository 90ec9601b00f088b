package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/zurustar/mconv/pkg/codec"
	"github.com/zurustar/mconv/pkg/fileutil"
	"golang.org/x/sync/errgroup"
)

// runBatch ファイルやディレクトリをまとめて変換する。
// 最初のエラー、または ctx のキャンセルで残りのファイルを中止する。
func (app *Application) runBatch(ctx context.Context, inputs []string) error {
	start := time.Now()

	files, err := fileutil.Collect(inputs, codec.Extensions())
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("batch: no input images found")
	}

	jobs, err := app.planBatch(files)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(app.config.OutDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", app.config.OutDir, err)
	}

	app.log.Info("Batch started", "files", len(jobs), "jobs", app.config.Jobs, "out", app.config.OutDir)

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(app.config.Jobs)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := app.process(j); err != nil {
				return err
			}
			done.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		app.log.Warn("Batch aborted", "done", done.Load(), "files", len(jobs))
		return fmt.Errorf("batch: %w", err)
	}

	app.printer.Fprintf(app.stdout, "%d files converted in %v\n", done.Load(), time.Since(start).Round(time.Millisecond))
	return nil
}

// planBatch 入力ファイルごとの出力パスと形式を決める
func (app *Application) planBatch(files []string) ([]job, error) {
	doResize := app.config.Width != nil || app.config.Height != nil
	seen := make(map[string]string, len(files))
	jobs := make([]job, 0, len(files))

	for _, in := range files {
		format := app.config.Format
		if format == "" {
			f, err := codec.FormatFromPath(in)
			if err != nil {
				return nil, fmt.Errorf("input %s: %w", in, err)
			}
			if !f.CanEncode() {
				return nil, fmt.Errorf("input %s: %w: %s (use -f to choose an output format)", in, codec.ErrEncodeUnsupported, f)
			}
			format = f
		}

		name := filepath.Base(fileutil.TrimCompression(in))
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		out := filepath.Join(app.config.OutDir, stem+"."+string(format))

		if prev, ok := seen[out]; ok {
			return nil, fmt.Errorf("batch: %s and %s would both be written to %s", prev, in, out)
		}
		seen[out] = in

		jobs = append(jobs, job{input: in, output: out, format: format, resize: doResize})
	}

	return jobs, nil
}
