package scoring

import "math"

// crowdCurve scores correct picks against the league's pick distribution:
// base round points times a boldness multiplier that grows as fewer entries
// share the pick. Accuracy+Boldness and FanCred Edge are the same curve with
// different point tables and tuning constants.
type crowdCurve struct {
	name     string
	points   map[int]float64
	exponent float64
	maxBonus float64
}

// boldness maps a pick share in (0,1] to a multiplier. A pick the whole
// league made (share 1.0) multiplies by exactly 1.0; rarer picks climb
// toward maxBonus.
func (c crowdCurve) boldness(share float64) float64 {
	if share <= 0 || share > 1 {
		return 1.0
	}
	m := math.Pow(1/share, c.exponent)
	return math.Min(math.Max(m, 1.0), c.maxBonus)
}

func (c crowdCurve) Score(picks []PickResult, dist Distribution) Result {
	total := 0.0
	base := 0.0
	boldest := 1.0
	for _, p := range picks {
		if !p.correct() {
			continue
		}
		pts := c.points[p.Round]
		mult := c.boldness(dist.Share(p.NodeID, p.PickedTeamName))
		if mult > boldest {
			boldest = mult
		}
		base += pts
		total += pts * mult
	}
	return Result{
		Total: total,
		Details: map[string]any{
			"curve":         c.name,
			"basePoints":    base,
			"boldnessBonus": total - base,
			"boldestFactor": boldest,
			"bonusCap":      c.maxBonus,
			"curveExponent": c.exponent,
		},
	}
}
