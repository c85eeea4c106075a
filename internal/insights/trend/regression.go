package trend

// Fit holds an ordinary least-squares line fitted over a 0-based index.
type Fit struct {
	Slope     float64
	Intercept float64
	RSquared  float64
	N         int
}

// LeastSquares fits values against their 0-based index. RSquared is the
// standard coefficient of determination; a constant series fits its own
// mean exactly and scores 1.
func LeastSquares(values []float64) Fit {
	n := len(values)
	fit := Fit{N: n}
	if n < 2 {
		return fit
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return fit
	}
	fit.Slope = (fn*sumXY - sumX*sumY) / denom
	fit.Intercept = (sumY - fit.Slope*sumX) / fn

	mean := sumY / fn
	var ssRes, ssTot float64
	for i, y := range values {
		predicted := fit.Slope*float64(i) + fit.Intercept
		ssRes += (y - predicted) * (y - predicted)
		ssTot += (y - mean) * (y - mean)
	}
	if ssTot == 0 {
		if ssRes == 0 {
			fit.RSquared = 1
		}
		return fit
	}
	fit.RSquared = 1 - ssRes/ssTot
	if fit.RSquared < 0 {
		fit.RSquared = 0
	}
	if fit.RSquared > 1 {
		fit.RSquared = 1
	}
	return fit
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// PopulationVariance returns the population variance, 0 for an empty slice.
func PopulationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return sum / float64(len(values))
}
