package layout

import (
	"math"
	"testing"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig(0, 0)

	// A4: 297mm at 96 DPI is just over 1122px.
	if math.Abs(cfg.UsablePageHeight-1122.5) > 1 {
		t.Errorf("UsablePageHeight = %v, want ~1122", cfg.UsablePageHeight)
	}
	if cfg.MinRemainingSpace != 100 {
		t.Errorf("MinRemainingSpace = %v, want 100", cfg.MinRemainingSpace)
	}
	if cfg.LargeContentThreshold != 900 {
		t.Errorf("LargeContentThreshold = %v, want 900", cfg.LargeContentThreshold)
	}
	if cfg.HeadingMinSpace != 80 {
		t.Errorf("HeadingMinSpace = %v, want 80", cfg.HeadingMinSpace)
	}
	if cfg.ForceBreakOffset != 150 {
		t.Errorf("ForceBreakOffset = %v, want 150", cfg.ForceBreakOffset)
	}
	if cfg.OverflowTolerance != 50 {
		t.Errorf("OverflowTolerance = %v, want 50", cfg.OverflowTolerance)
	}
	if !cfg.BreakBeforeH2 {
		t.Error("BreakBeforeH2 = false, want true")
	}
	if cfg.Debug {
		t.Error("Debug = true, want false")
	}
	if cfg.ContentMaxWidth <= 0 || cfg.ContentMaxWidth >= cfg.UsablePageHeight {
		t.Errorf("ContentMaxWidth = %v, want positive and below page height", cfg.ContentMaxWidth)
	}
}

func TestPageDimsMm(t *testing.T) {
	tests := []struct {
		size            string
		wantW, wantH    float64
	}{
		{"a4", 210, 297},
		{"letter", 215.9, 279.4},
		{"legal", 215.9, 355.6},
		{"unknown", 210, 297},
		{"", 210, 297},
	}
	for _, tt := range tests {
		t.Run(tt.size, func(t *testing.T) {
			w, h := PageDimsMm(tt.size)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("PageDimsMm(%q) = %v x %v, want %v x %v", tt.size, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("override applies", func(t *testing.T) {
		t.Setenv("MDCONVERT_LARGE_CONTENT_THRESHOLD", "700")
		cfg := ConfigFromEnv(0, 0)
		if cfg.LargeContentThreshold != 700 {
			t.Errorf("LargeContentThreshold = %v, want 700", cfg.LargeContentThreshold)
		}
	})

	t.Run("non-numeric value falls back to default", func(t *testing.T) {
		t.Setenv("MDCONVERT_LARGE_CONTENT_THRESHOLD", "not-a-number")
		cfg := ConfigFromEnv(0, 0)
		if cfg.LargeContentThreshold != DefaultLargeContentThreshold {
			t.Errorf("LargeContentThreshold = %v, want default %d",
				cfg.LargeContentThreshold, DefaultLargeContentThreshold)
		}
	})

	t.Run("boolean toggle", func(t *testing.T) {
		t.Setenv("MDCONVERT_BREAK_BEFORE_H2", "false")
		cfg := ConfigFromEnv(0, 0)
		if cfg.BreakBeforeH2 {
			t.Error("BreakBeforeH2 = true, want false")
		}
	})

	t.Run("invalid boolean falls back to default", func(t *testing.T) {
		t.Setenv("MDCONVERT_BREAK_BEFORE_H2", "maybe")
		cfg := ConfigFromEnv(0, 0)
		if !cfg.BreakBeforeH2 {
			t.Error("BreakBeforeH2 = false, want default true")
		}
	})

	t.Run("debug toggle", func(t *testing.T) {
		t.Setenv("MDCONVERT_LAYOUT_DEBUG", "1")
		cfg := ConfigFromEnv(0, 0)
		if !cfg.Debug {
			t.Error("Debug = false, want true")
		}
	})
}
