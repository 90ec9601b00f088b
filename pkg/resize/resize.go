// Package resize はRGBAピクセルバッファのリサンプリングを提供する。
//
// 入力は行パディングなし、上から順の (R, G, B, A) バッファ。
// どのカーネルも入力を変更せず、新しい出力バッファを確保して返す。
package resize

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDimensions は幅または高さが1未満の場合のエラー
	ErrInvalidDimensions = errors.New("resize: invalid dimensions")

	// ErrBufferSize は入力バッファの長さが srcW*srcH*4 と一致しない場合のエラー
	ErrBufferSize = errors.New("resize: source buffer size mismatch")

	// ErrUnknownKernel は未定義のカーネルが指定された場合のエラー
	ErrUnknownKernel = errors.New("resize: unknown kernel")
)

// Resize は srcW x srcH のRGBAバッファを dstW x dstH に変換する
func Resize(src []byte, srcW, srcH, dstW, dstH int, k Kernel) ([]byte, error) {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return nil, fmt.Errorf("%w: %dx%d -> %dx%d", ErrInvalidDimensions, srcW, srcH, dstW, dstH)
	}
	// バッファ長 w*h*4 が int に収まること
	if srcW > math.MaxInt/4/srcH || dstW > math.MaxInt/4/dstH {
		return nil, fmt.Errorf("%w: %dx%d -> %dx%d overflows", ErrInvalidDimensions, srcW, srcH, dstW, dstH)
	}
	if expected := srcW * srcH * 4; len(src) != expected {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrBufferSize, expected, len(src))
	}

	switch k {
	case Nearest:
		return resizeNearest(src, srcW, srcH, dstW, dstH), nil
	case Bilinear:
		return resizeBilinear(src, srcW, srcH, dstW, dstH), nil
	case Bicubic:
		return resizeBicubic(src, srcW, srcH, dstW, dstH), nil
	case Lanczos3:
		return resizeLanczos(src, srcW, srcH, dstW, dstH), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKernel, int(k))
	}
}

// axisRatio は出力座標を入力座標に写す倍率を返す。
// 入力と出力が同じ長さの軸は恒等写像にする。
func axisRatio(span float64, srcLen, dstLen int) float64 {
	if srcLen == dstLen {
		return 1
	}
	return span / float64(dstLen)
}

func resizeNearest(src []byte, srcW, srcH, dstW, dstH int) []byte {
	out := make([]byte, dstW*dstH*4)

	xRatio := axisRatio(float64(srcW), srcW, dstW)
	yRatio := axisRatio(float64(srcH), srcH, dstH)

	for y := 0; y < dstH; y++ {
		sy := min(int(float64(y)*yRatio), srcH-1)
		for x := 0; x < dstW; x++ {
			sx := min(int(float64(x)*xRatio), srcW-1)

			si := (sy*srcW + sx) * 4
			di := (y*dstW + x) * 4
			copy(out[di:di+4], src[si:si+4])
		}
	}

	return out
}

func resizeBilinear(src []byte, srcW, srcH, dstW, dstH int) []byte {
	out := make([]byte, dstW*dstH*4)

	xRatio := axisRatio(float64(srcW-1), srcW, dstW)
	yRatio := axisRatio(float64(srcH-1), srcH, dstH)

	for y := 0; y < dstH; y++ {
		sy := float64(y) * yRatio
		y0 := int(math.Floor(sy))
		y1 := min(y0+1, srcH-1)
		fy := sy - float64(y0)

		for x := 0; x < dstW; x++ {
			sx := float64(x) * xRatio
			x0 := int(math.Floor(sx))
			x1 := min(x0+1, srcW-1)
			fx := sx - float64(x0)

			i00 := (y0*srcW + x0) * 4
			i10 := (y0*srcW + x1) * 4
			i01 := (y1*srcW + x0) * 4
			i11 := (y1*srcW + x1) * 4
			di := (y*dstW + x) * 4

			for c := 0; c < 4; c++ {
				v := float64(src[i00+c])*(1-fx)*(1-fy) +
					float64(src[i10+c])*fx*(1-fy) +
					float64(src[i01+c])*(1-fx)*fy +
					float64(src[i11+c])*fx*fy
				out[di+c] = uint8(math.Round(v))
			}
		}
	}

	return out
}

func resizeBicubic(src []byte, srcW, srcH, dstW, dstH int) []byte {
	out := make([]byte, dstW*dstH*4)

	tx := newTaps(srcW, dstW, -1, 2, cubic)
	ty := newTaps(srcH, dstH, -1, 2, cubic)

	for y := 0; y < dstH; y++ {
		rows, wys := ty.at(y)
		for x := 0; x < dstW; x++ {
			cols, wxs := tx.at(x)
			di := (y*dstW + x) * 4

			for c := 0; c < 4; c++ {
				sum := 0.0
				for j, py := range rows {
					for i, px := range cols {
						p := float64(src[(py*srcW+px)*4+c])
						sum += p * wxs[i] * wys[j]
					}
				}
				out[di+c] = clampRound(sum)
			}
		}
	}

	return out
}

func resizeLanczos(src []byte, srcW, srcH, dstW, dstH int) []byte {
	out := make([]byte, dstW*dstH*4)

	tx := newTaps(srcW, dstW, -lanczosRadius+1, lanczosRadius, lanczos3)
	ty := newTaps(srcH, dstH, -lanczosRadius+1, lanczosRadius, lanczos3)

	for y := 0; y < dstH; y++ {
		rows, wys := ty.at(y)
		for x := 0; x < dstW; x++ {
			cols, wxs := tx.at(x)
			di := (y*dstW + x) * 4

			for c := 0; c < 4; c++ {
				sum, weightSum := 0.0, 0.0
				for j, py := range rows {
					for i, px := range cols {
						p := float64(src[(py*srcW+px)*4+c])
						w := wxs[i] * wys[j]
						sum += p * w
						weightSum += w
					}
				}
				// 端で切り詰められた窓の分を正規化で補う
				if weightSum > 0 {
					out[di+c] = clampRound(sum / weightSum)
				}
			}
		}
	}

	return out
}

func clampRound(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
