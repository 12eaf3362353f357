package ui

import (
	"image/color"
	"testing"
)

func TestCoefficientColor(t *testing.T) {
	tests := []struct {
		a    float64
		want color.RGBA
	}{
		{-1, color.RGBA{R: 255, A: 255}},
		{-2, color.RGBA{R: 255, A: 255}},
		{0, color.RGBA{A: 255}},
		{0.5, color.RGBA{G: 127, A: 255}},
		{1, color.RGBA{G: 255, A: 255}},
		{3, color.RGBA{G: 255, A: 255}},
	}

	for _, tt := range tests {
		if got := CoefficientColor(tt.a); got != tt.want {
			t.Errorf("CoefficientColor(%v) = %v, want %v", tt.a, got, tt.want)
		}
	}
}
