package merge

// Average is the default merger: the arithmetic mean of the valid samples
// of each block, accumulated in float64 and cast back to the element type.
var Average = Reduce(func(valid []float64) float64 {
	var sum float64
	for _, v := range valid {
		sum += v
	}
	return sum / float64(len(valid))
})

// Max keeps the largest valid sample of each block.
var Max = Reduce(func(valid []float64) float64 {
	m := valid[0]
	for _, v := range valid[1:] {
		m = max(m, v)
	}
	return m
})

// Nearest keeps the first valid sample of each block in quadrant order,
// which for fully populated data is plain 2x decimation.
var Nearest = Reduce(func(valid []float64) float64 {
	return valid[0]
})
