package app

import (
	"fmt"

	"github.com/zurustar/mconv/pkg/bmp"
	"github.com/zurustar/mconv/pkg/codec"
	"github.com/zurustar/mconv/pkg/fileutil"
)

// runInfo ヘッダーと寸法を表示
func (app *Application) runInfo(paths []string) error {
	for _, path := range paths {
		if err := app.printInfo(path); err != nil {
			return err
		}
	}
	return nil
}

func (app *Application) printInfo(path string) error {
	format, err := codec.FormatFromPath(path)
	if err != nil {
		return fmt.Errorf("input %s: %w", path, err)
	}

	data, err := fileutil.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if format != codec.BMP {
		w, h, err := codec.DecodeConfig(data, format)
		if err != nil {
			return fmt.Errorf("failed to read header of %s: %w", path, err)
		}
		app.printer.Fprintf(app.stdout, "%s: %s, %d x %d, %d bytes\n", path, format, w, h, len(data))
		return nil
	}

	hdr, err := bmp.ReadHeader(data)
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	w, h := hdr.Dimensions()
	order := "bottom-up"
	if hdr.TopDown() {
		order = "top-down"
	}
	app.printer.Fprintf(app.stdout, "%s: bmp, %d x %d, %d bpp, %s, %s, %d bytes\n",
		path, w, h, hdr.BitCount, hdr.CompressionName(), order, len(data))

	if hdr.CompressionName() == "BI_BITFIELDS" {
		app.printer.Fprintf(app.stdout, "  masks: R=%08x G=%08x B=%08x A=%08x\n",
			hdr.RedMask, hdr.GreenMask, hdr.BlueMask, hdr.AlphaMask)
	}

	app.log.Debug("BMP header",
		"path", path,
		"dib_size", hdr.DIBSize,
		"data_offset", hdr.DataOffset,
		"file_size", hdr.FileSize,
		"image_size", hdr.ImageSize,
		"colors_used", hdr.ColorsUsed,
		"x_ppm", hdr.XPixelsPerMeter,
		"y_ppm", hdr.YPixelsPerMeter,
		"color_space", hdr.ColorSpace)

	return nil
}
