package catalog

import (
	"fmt"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// Bin is one histogram bucket covering [Low, High); the last bin also includes High.
type Bin struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// Label formats the bin range, e.g. "7.0-8.0".
func (b Bin) Label() string {
	return fmt.Sprintf("%.1f-%.1f", b.Low, b.High)
}

// Histogram buckets ratings into equal-width bins spanning the 0–10 rating scale.
//
// Ratings outside the scale are clamped into the first or last bin.
func Histogram(c models.Catalog, bins int) ([]Bin, error) {
	if len(c) == 0 {
		return nil, shared.ErrEmptyCatalog
	}
	if bins <= 0 {
		return nil, fmt.Errorf("%w: bins must be positive, got %d", shared.ErrInvalidInput, bins)
	}

	width := (models.MaxRating - models.MinRating) / float64(bins)
	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = models.MinRating + float64(i)*width
		out[i].High = out[i].Low + width
	}

	for _, m := range c {
		idx := int((m.Rating - models.MinRating) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}

	return out, nil
}
