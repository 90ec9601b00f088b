package app

import (
	"fmt"
	"time"

	"github.com/zurustar/mconv/pkg/bmp"
	"github.com/zurustar/mconv/pkg/cli"
	"github.com/zurustar/mconv/pkg/codec"
	"github.com/zurustar/mconv/pkg/fileutil"
	"github.com/zurustar/mconv/pkg/resize"
)

// job は1ファイル分の変換
type job struct {
	input  string
	output string
	format codec.Format // 出力形式
	resize bool         // -W / -H に従ってリサイズする
}

// runConvert 拡張子に応じて形式を変換
func (app *Application) runConvert(input, output string) error {
	j, err := newJob(input, output, false)
	if err != nil {
		return err
	}
	return app.process(j)
}

// runResize リサイズして保存
func (app *Application) runResize(input, output string) error {
	j, err := newJob(input, output, true)
	if err != nil {
		return err
	}
	return app.process(j)
}

func newJob(input, output string, doResize bool) (job, error) {
	format, err := codec.FormatFromPath(output)
	if err != nil {
		return job{}, fmt.Errorf("output %s: %w", output, err)
	}
	if !format.CanEncode() {
		return job{}, fmt.Errorf("output %s: %w: %s", output, codec.ErrEncodeUnsupported, format)
	}
	return job{input: input, output: output, format: format, resize: doResize}, nil
}

// process 読み込み、デコード、リサイズ、エンコード、書き込みを行う
func (app *Application) process(j job) error {
	start := time.Now()

	inFormat, err := codec.FormatFromPath(j.input)
	if err != nil {
		return fmt.Errorf("input %s: %w", j.input, err)
	}

	data, err := fileutil.ReadFile(j.input)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", j.input, err)
	}

	img, err := codec.Decode(data, inFormat)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", j.input, err)
	}
	srcW, srcH := img.Width, img.Height

	if j.resize {
		img, err = app.resizeImage(img)
		if err != nil {
			return fmt.Errorf("failed to resize %s: %w", j.input, err)
		}
	}

	out, err := codec.Encode(img, j.format)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", j.output, err)
	}

	if err := fileutil.WriteFile(j.output, out); err != nil {
		return fmt.Errorf("failed to write %s: %w", j.output, err)
	}

	attrs := []any{
		"input", j.input,
		"output", j.output,
		"format", j.format,
		"src_width", srcW,
		"src_height", srcH,
		"width", img.Width,
		"height", img.Height,
		"bytes", len(out),
		"elapsed", time.Since(start),
	}
	if j.resize {
		attrs = append(attrs, "kernel", app.config.Kernel.String())
	}
	app.log.Info("Converted", attrs...)

	return nil
}

func (app *Application) resizeImage(img *bmp.Image) (*bmp.Image, error) {
	w, h, err := cli.TargetSize(app.config.Width, app.config.Height, img.Width, img.Height)
	if err != nil {
		return nil, err
	}

	pix, err := resize.Resize(img.Pix, img.Width, img.Height, w, h, app.config.Kernel)
	if err != nil {
		return nil, err
	}
	return &bmp.Image{Width: w, Height: h, Pix: pix}, nil
}
