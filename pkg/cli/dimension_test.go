package cli

import (
	"errors"
	"testing"
)

func TestDimension_Eval(t *testing.T) {
	tests := []struct {
		expr string
		w, h int
		want int
	}{
		{"640", 100, 50, 640},
		{"w/2", 101, 50, 51},
		{"h*1.5", 100, 50, 75},
		{"w/3", 100, 50, 33},
		{"min(w, 640)", 1920, 1080, 640},
		{"min(w, 640)", 320, 240, 320},
		{"max(w, h, 500)", 320, 240, 500},
		{"floor(w/3)", 5, 5, 1},
		{"ceil(w/3)", 5, 5, 2},
		{"round(w*0.25)", 10, 10, 3},
		{"(w + h) / 2", 30, 10, 20},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			d, err := ParseDimension(tt.expr)
			if err != nil {
				t.Fatalf("ParseDimension failed: %v", err)
			}
			got, err := d.Eval(tt.w, tt.h)
			if err != nil {
				t.Fatalf("Eval failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%d, %d) = %d, want %d", tt.w, tt.h, got, tt.want)
			}
		})
	}
}

func TestDimension_Errors(t *testing.T) {
	parseErrors := []string{"", "   ", "w/", "x*2", "width"}
	for _, expr := range parseErrors {
		t.Run("parse "+expr, func(t *testing.T) {
			if _, err := ParseDimension(expr); !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("expected ErrInvalidDimension, got %v", err)
			}
		})
	}

	evalErrors := []string{"0", "w-100", "w/0", "0.4", "w > 1"}
	for _, expr := range evalErrors {
		t.Run("eval "+expr, func(t *testing.T) {
			d, err := ParseDimension(expr)
			if err != nil {
				t.Fatalf("ParseDimension failed: %v", err)
			}
			if _, err := d.Eval(10, 10); !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("expected ErrInvalidDimension, got %v", err)
			}
		})
	}
}

func TestTargetSize(t *testing.T) {
	mustParse := func(s string) *Dimension {
		d, err := ParseDimension(s)
		if err != nil {
			t.Fatalf("ParseDimension(%q) failed: %v", s, err)
		}
		return d
	}

	tests := []struct {
		name          string
		width, height *Dimension
		srcW, srcH    int
		wantW, wantH  int
	}{
		{"指定なし", nil, nil, 40, 30, 40, 30},
		{"幅だけ", mustParse("20"), nil, 40, 30, 20, 15},
		{"高さだけ", nil, mustParse("h*2"), 40, 30, 80, 60},
		{"両方", mustParse("10"), mustParse("7"), 40, 30, 10, 7},
		{"縦横比で1未満にならない", mustParse("1"), nil, 100, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := TargetSize(tt.width, tt.height, tt.srcW, tt.srcH)
			if err != nil {
				t.Fatalf("TargetSize failed: %v", err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("TargetSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}

	if _, _, err := TargetSize(mustParse("w-100"), nil, 40, 30); !errors.Is(err, ErrInvalidDimension) {
		t.Errorf("expected ErrInvalidDimension, got %v", err)
	}
}
