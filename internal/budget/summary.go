package budget

import (
	"sort"

	"github.com/campushub/campushub/internal/model"
)

// Categories in display order.
var Categories = []string{model.CategoryFood, model.CategorySchool, model.CategoryOther}

// Summary aggregates a user's expenses: grand total, per-category
// totals, and integer percentages that sum to exactly 100 when the
// total is nonzero.
type Summary struct {
	Total    float64            `json:"total"`
	Totals   map[string]float64 `json:"totals"`
	Percents map[string]int     `json:"percents"`
}

// Summarize computes category totals and percentages. Percentages use
// largest-remainder rounding so they always add up to 100.
func Summarize(expenses []model.BudgetExpense) Summary {
	s := Summary{
		Totals:   make(map[string]float64, len(Categories)),
		Percents: make(map[string]int, len(Categories)),
	}
	for _, c := range Categories {
		s.Totals[c] = 0
		s.Percents[c] = 0
	}

	for _, e := range expenses {
		if _, ok := s.Totals[e.Category]; !ok {
			// Unknown categories count toward "other"
			s.Totals[model.CategoryOther] += e.Amount
		} else {
			s.Totals[e.Category] += e.Amount
		}
		s.Total += e.Amount
	}

	if s.Total <= 0 {
		return s
	}

	type share struct {
		category  string
		floor     int
		remainder float64
	}
	shares := make([]share, 0, len(Categories))
	allocated := 0
	for _, c := range Categories {
		exact := s.Totals[c] / s.Total * 100
		f := int(exact)
		shares = append(shares, share{category: c, floor: f, remainder: exact - float64(f)})
		allocated += f
	}

	// Hand the leftover points to the largest remainders.
	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].remainder > shares[j].remainder
	})
	for i := 0; i < 100-allocated && i < len(shares); i++ {
		shares[i].floor++
	}

	for _, sh := range shares {
		s.Percents[sh.category] = sh.floor
	}
	return s
}
