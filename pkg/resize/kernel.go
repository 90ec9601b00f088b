package resize

import (
	"fmt"
	"math"
	"strings"
)

// Kernel はリサンプリングに使う補間カーネル
type Kernel int

const (
	Nearest Kernel = iota
	Bilinear
	Bicubic
	Lanczos3
)

// Kernels は定義済みのすべてのカーネルを返す
func Kernels() []Kernel {
	return []Kernel{Nearest, Bilinear, Bicubic, Lanczos3}
}

func (k Kernel) String() string {
	switch k {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case Bicubic:
		return "bicubic"
	case Lanczos3:
		return "lanczos3"
	default:
		return fmt.Sprintf("Kernel(%d)", int(k))
	}
}

// ParseKernel はカーネル名を解析する（大文字小文字を無視）
func ParseKernel(name string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nearest":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	case "bicubic":
		return Bicubic, nil
	case "lanczos", "lanczos3":
		return Lanczos3, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
}

const lanczosRadius = 3

// cubic は a = -0.5 の Keys 三次畳み込みカーネル
func cubic(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t < 1:
		return (1.5*t-2.5)*t*t + 1
	case t < 2:
		return ((-0.5*t+2.5)*t-4)*t + 2
	default:
		return 0
	}
}

func sinc(t float64) float64 {
	if t == 0 {
		return 1
	}
	t *= math.Pi
	return math.Sin(t) / t
}

// lanczos3 は半径3の窓付きsinc
func lanczos3(t float64) float64 {
	if t == 0 {
		return 1
	}
	if math.Abs(t) >= lanczosRadius {
		return 0
	}
	return sinc(t) * sinc(t/lanczosRadius)
}

// taps は1軸ぶんの出力座標ごとの入力インデックスと重み。
// 軸ごとに独立なので、画素ごとに再計算せず前もって求めておく。
type taps struct {
	size    int
	indices []int
	weights []float64
}

// newTaps は offset lo..hi の近傍について taps を作る。
// 範囲外のインデックスは端の画素に丸める。
func newTaps(srcLen, dstLen, lo, hi int, weight func(float64) float64) *taps {
	size := hi - lo + 1
	t := &taps{
		size:    size,
		indices: make([]int, dstLen*size),
		weights: make([]float64, dstLen*size),
	}

	ratio := axisRatio(float64(srcLen), srcLen, dstLen)
	for d := 0; d < dstLen; d++ {
		s := float64(d) * ratio
		s0 := math.Floor(s)
		f := s - s0
		for k := 0; k < size; k++ {
			off := lo + k
			t.indices[d*size+k] = max(0, min(int(s0)+off, srcLen-1))
			t.weights[d*size+k] = weight(float64(off) - f)
		}
	}
	return t
}

func (t *taps) at(d int) ([]int, []float64) {
	start := d * t.size
	return t.indices[start : start+t.size], t.weights[start : start+t.size]
}
