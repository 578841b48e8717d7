package scoring

import "sort"

// streakSurvival rewards unbroken runs of correct picks. Picks are walked in
// round order; every correct pick earns its round points plus an escalating
// bonus for each consecutive correct pick before it, and a single incorrect
// pick zeroes the active run. Unresolved picks are skipped: they neither
// extend nor break a run.
type streakSurvival struct {
	points map[int]float64
}

const streakBonusStep = 2.0

func (s streakSurvival) Score(picks []PickResult, _ Distribution) Result {
	ordered := make([]PickResult, len(picks))
	copy(ordered, picks)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Round < ordered[j].Round
	})

	total := 0.0
	run := 0
	longest := 0
	for _, p := range ordered {
		if p.IsCorrect == nil {
			continue
		}
		if !*p.IsCorrect {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
		total += s.points[p.Round] + streakBonusStep*float64(run-1)
	}

	return Result{
		Total: total,
		Details: map[string]any{
			"currentStreak": run,
			"longestStreak": longest,
		},
	}
}
