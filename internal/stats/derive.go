package stats

// Points returns the points scored in r.
func Points(r Record) int {
	return 2*r.TwoPointMade + 3*r.ThreePointMade + r.FreeThrowMade
}

// Percentage returns made/attempted. ok is false when nothing was attempted,
// in which case callers should render a placeholder instead of 0%.
func Percentage(made, attempted int) (pct float64, ok bool) {
	if attempted <= 0 {
		return 0, false
	}
	return float64(made) / float64(attempted), true
}

// TotalRebounds returns defensive plus offensive rebounds.
func TotalRebounds(r Record) int {
	return r.DefensiveRebounds + r.OffensiveRebounds
}

// ShootingPercentage returns the percentage for one shot category of r.
func (r Record) ShootingPercentage(cat ShotCategory) (float64, bool) {
	return Percentage(r.Get(cat.MadeCounter()), r.Get(cat.AttemptedCounter()))
}

// Add returns the counter-wise sum of r and o.
func (r Record) Add(o Record) Record {
	for _, c := range Counters {
		*r.field(c) += o.Get(c)
	}
	return r
}
