package dashboard

// Snapshot holds every derived view of one recomputation. All views are
// computed from the same filtered table.
type Snapshot struct {
	Selection   Selection       `json:"selection"`
	Metrics     Metrics         `json:"metrics"`
	Cards       []Card          `json:"cards"`
	Correlation CorrelationPlot `json:"correlation"`
	Comparison  ComparisonPlot  `json:"comparison"`
	Rows        []Row           `json:"rows"`
}

// Compute filters once with f and derives all views from the result.
func Compute(f Filterer, sel Selection) Snapshot {
	table := f.Filter(sel)
	metrics := Summarize(table)
	return Snapshot{
		Selection:   sel,
		Metrics:     metrics,
		Cards:       metrics.Cards(),
		Correlation: RenderCorrelation(table, sel.Payment),
		Comparison:  RenderPaymentComparison(table),
		Rows:        Project(table),
	}
}
