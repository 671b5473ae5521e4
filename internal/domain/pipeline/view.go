package pipeline

import (
	"github.com/shopspring/decimal"
)

// StageGroup is one column of the pipeline board view
type StageGroup struct {
	Stage         Stage           `json:"stage"`
	Opportunities []Opportunity   `json:"opportunities"`
	Count         int             `json:"count"`
	TotalValue    decimal.Decimal `json:"total_value"`
}

// GroupByStage groups opportunities into per-stage buckets with counts and
// exact-decimal value totals. Every stage appears in the result even when
// empty, in pipeline display order.
func GroupByStage(opportunities []Opportunity) []StageGroup {
	groups := make([]StageGroup, 0, len(Stages))
	byStage := make(map[Stage][]Opportunity, len(Stages))
	for _, o := range opportunities {
		byStage[o.Stage] = append(byStage[o.Stage], o)
	}

	for _, stage := range Stages {
		opps := byStage[stage]
		total := decimal.Zero
		for _, o := range opps {
			total = total.Add(o.Amount)
		}
		if opps == nil {
			opps = []Opportunity{}
		}
		groups = append(groups, StageGroup{
			Stage:         stage,
			Opportunities: opps,
			Count:         len(opps),
			TotalValue:    total,
		})
	}

	return groups
}

// WeightedValue sums amount multiplied by probability over one hundred
// across the given opportunities, as an exact decimal.
func WeightedValue(opportunities []Opportunity) decimal.Decimal {
	total := decimal.Zero
	for _, o := range opportunities {
		total = total.Add(o.WeightedValue())
	}
	return total
}
