package layout

import "testing"

func TestFitScale(t *testing.T) {
	tests := []struct {
		name                   string
		naturalW, naturalH     float64
		maxW, maxH             float64
		want                   float64
	}{
		{"fits exactly", 700, 1000, 700, 1000, 1},
		{"smaller than page is never upscaled", 350, 500, 700, 1000, 1},
		{"width bound", 1400, 500, 700, 1000, 0.5},
		{"height bound", 350, 2000, 700, 1000, 0.5},
		{"both bound takes the smaller factor", 1400, 4000, 700, 1000, 0.25},
		{"zero natural width falls back to 1", 0, 500, 700, 1000, 1},
		{"zero natural height falls back to 1", 350, 0, 700, 1000, 1},
		{"zero page box falls back to 1", 350, 500, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FitScale(tt.naturalW, tt.naturalH, tt.maxW, tt.maxH)
			if got != tt.want {
				t.Errorf("FitScale() = %v, want %v", got, tt.want)
			}
			if got <= 0 || got > 1 {
				t.Errorf("FitScale() = %v, outside (0, 1]", got)
			}
		})
	}
}

func TestScaleStep(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		want  int
	}{
		{"no scaling", 1, 100},
		{"above one clamps to 100", 1.3, 100},
		{"rounds down to step", 0.93, 90},
		{"exact step kept", 0.85, 85},
		{"just below step rounds down", 0.849, 80},
		{"floor at minimum step", 0.05, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleStep(tt.scale); got != tt.want {
				t.Errorf("ScaleStep(%v) = %d, want %d", tt.scale, got, tt.want)
			}
		})
	}
}
