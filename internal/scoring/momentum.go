package scoring

// momentum is the baseline strategy: flat round points per correct pick,
// no crowd or streak adjustment.
type momentum struct {
	points map[int]float64
}

func (m momentum) Score(picks []PickResult, _ Distribution) Result {
	total := 0.0
	perRound := map[int]float64{}
	for _, p := range picks {
		if !p.correct() {
			continue
		}
		pts := m.points[p.Round]
		total += pts
		perRound[p.Round] += pts
	}
	return Result{
		Total: total,
		Details: map[string]any{
			"pointsByRound": perRound,
		},
	}
}
