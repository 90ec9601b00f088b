package cli

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/knetic/govaluate"
)

// ErrInvalidDimension は寸法の式が不正、または評価結果が1未満の場合のエラー
var ErrInvalidDimension = errors.New("invalid dimension")

// Dimension は -W / -H に指定された出力寸法の式。
// 整数のほか、入力画像の幅 w と高さ h を使った式（"w/2", "min(w, 640)" など）を書ける。
type Dimension struct {
	source string
	expr   *govaluate.EvaluableExpression
}

// dimensionFunctions は寸法の式で使える関数
func dimensionFunctions() map[string]govaluate.ExpressionFunction {
	unary := func(name string, f func(float64) float64) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(args))
			}
			v, ok := args[0].(float64)
			if !ok {
				return nil, fmt.Errorf("%s: argument must be numeric", name)
			}
			return f(v), nil
		}
	}
	fold := func(name string, f func(a, b float64) float64) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			if len(args) == 0 {
				return nil, fmt.Errorf("%s expects at least 1 argument", name)
			}
			var acc float64
			for i, arg := range args {
				v, ok := arg.(float64)
				if !ok {
					return nil, fmt.Errorf("%s: argument %d must be numeric", name, i+1)
				}
				if i == 0 {
					acc = v
				} else {
					acc = f(acc, v)
				}
			}
			return acc, nil
		}
	}

	return map[string]govaluate.ExpressionFunction{
		"min":   fold("min", math.Min),
		"max":   fold("max", math.Max),
		"round": unary("round", math.Round),
		"floor": unary("floor", math.Floor),
		"ceil":  unary("ceil", math.Ceil),
	}
}

// ParseDimension は寸法の式を解析する。使える変数は w と h だけ。
func ParseDimension(s string) (*Dimension, error) {
	src := strings.TrimSpace(s)
	if src == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidDimension)
	}

	expr, err := govaluate.NewEvaluableExpressionWithFunctions(src, dimensionFunctions())
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDimension, src, err)
	}
	for _, v := range expr.Vars() {
		if v != "w" && v != "h" {
			return nil, fmt.Errorf("%w: %q: unknown variable %q (use w or h)", ErrInvalidDimension, src, v)
		}
	}

	return &Dimension{source: src, expr: expr}, nil
}

// String は元の式を返す
func (d *Dimension) String() string {
	return d.source
}

// Eval は入力画像の幅と高さで式を評価し、四捨五入した寸法を返す
func (d *Dimension) Eval(w, h int) (int, error) {
	result, err := d.expr.Evaluate(map[string]interface{}{
		"w": float64(w),
		"h": float64(h),
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidDimension, d.source, err)
	}

	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidDimension, d.source)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q evaluated to %v", ErrInvalidDimension, d.source, v)
	}

	n := math.Round(v)
	if n < 1 || n > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %q evaluated to %v", ErrInvalidDimension, d.source, v)
	}
	return int(n), nil
}

// TargetSize は -W と -H から出力寸法を決める。
// 片方だけ指定された場合はもう片方を縦横比を保って計算し、
// どちらも指定されない場合は入力の寸法をそのまま返す。
func TargetSize(width, height *Dimension, srcW, srcH int) (int, int, error) {
	switch {
	case width == nil && height == nil:
		return srcW, srcH, nil

	case height == nil:
		w, err := width.Eval(srcW, srcH)
		if err != nil {
			return 0, 0, err
		}
		return w, keepAspect(w, srcH, srcW), nil

	case width == nil:
		h, err := height.Eval(srcW, srcH)
		if err != nil {
			return 0, 0, err
		}
		return keepAspect(h, srcW, srcH), h, nil

	default:
		w, err := width.Eval(srcW, srcH)
		if err != nil {
			return 0, 0, err
		}
		h, err := height.Eval(srcW, srcH)
		if err != nil {
			return 0, 0, err
		}
		return w, h, nil
	}
}

// keepAspect は given*num/den を四捨五入し、1以上にして返す
func keepAspect(given, num, den int) int {
	if den <= 0 {
		return max(given, 1)
	}
	return max(int(math.Round(float64(given)*float64(num)/float64(den))), 1)
}
