// Package catalog computes read-only views over a user's [models.Catalog]: summary statistics, search, sorting,
// filtering, random picks and rating histograms.
//
// All functions are pure; they never modify the slice they are given.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// Summary holds aggregate rating statistics for a catalog.
type Summary struct {
	Count   int            `json:"count"`
	Average float64        `json:"average"`
	Median  float64        `json:"median"`
	Best    []models.Movie `json:"best"`
	Worst   []models.Movie `json:"worst"`
}

// Summarize computes average and median rating plus every movie tied for the highest and lowest rating.
func Summarize(c models.Catalog) (*Summary, error) {
	if len(c) == 0 {
		return nil, shared.ErrEmptyCatalog
	}

	ratings := c.Ratings()
	slices.Sort(ratings)

	var sum float64
	for _, r := range ratings {
		sum += r
	}

	mid := len(ratings) / 2
	median := ratings[mid]
	if len(ratings)%2 == 0 {
		median = (ratings[mid-1] + ratings[mid]) / 2
	}

	lo, hi := ratings[0], ratings[len(ratings)-1]
	s := &Summary{
		Count:   len(c),
		Average: sum / float64(len(ratings)),
		Median:  median,
	}
	for _, m := range c {
		if m.Rating == hi {
			s.Best = append(s.Best, m)
		}
		if m.Rating == lo {
			s.Worst = append(s.Worst, m)
		}
	}

	return s, nil
}

// Random picks one movie using rng, or the global source when rng is nil.
func Random(c models.Catalog, rng *rand.Rand) (models.Movie, error) {
	if len(c) == 0 {
		return models.Movie{}, shared.ErrEmptyCatalog
	}
	if rng == nil {
		return c[rand.IntN(len(c))], nil
	}
	return c[rng.IntN(len(c))], nil
}

// Search returns movies whose title contains term, ignoring case.
func Search(c models.Catalog, term string) (models.Catalog, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil, fmt.Errorf("%w: search term cannot be empty", shared.ErrInvalidInput)
	}

	out := models.Catalog{}
	for _, m := range c {
		if strings.Contains(strings.ToLower(m.Title), term) {
			out = append(out, m)
		}
	}
	return out, nil
}

// SortByRating returns a copy ordered by rating, highest first. Ties keep title order.
func SortByRating(c models.Catalog) models.Catalog {
	out := slices.Clone(c)
	slices.SortStableFunc(out, func(a, b models.Movie) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		default:
			return 0
		}
	})
	return out
}

// SortByYear returns a copy ordered by year, newest first when latestFirst is set. Ties keep title order.
func SortByYear(c models.Catalog, latestFirst bool) models.Catalog {
	out := slices.Clone(c)
	slices.SortStableFunc(out, func(a, b models.Movie) int {
		if latestFirst {
			return b.Year - a.Year
		}
		return a.Year - b.Year
	})
	return out
}

// Criteria bounds a [Filter]. Nil fields are unbounded.
type Criteria struct {
	MinRating *float64
	StartYear *int
	EndYear   *int
}

// Filter returns the movies matching every bound set in criteria. Bounds are inclusive.
func Filter(c models.Catalog, criteria Criteria) models.Catalog {
	out := models.Catalog{}
	for _, m := range c {
		if criteria.MinRating != nil && m.Rating < *criteria.MinRating {
			continue
		}
		if criteria.StartYear != nil && m.Year < *criteria.StartYear {
			continue
		}
		if criteria.EndYear != nil && m.Year > *criteria.EndYear {
			continue
		}
		out = append(out, m)
	}
	return out
}
