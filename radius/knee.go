package radius

// Knee locates the knee of a convex, increasing curve y sampled at x = 0..n-1
// using the Kneedle method.
//
// Both axes are min-max normalized, the curve is flipped into a concave
// difference curve and its local maxima are walked in order: the knee is the
// first maximum after which the difference curve drops below
// Tmx = diff(max) - sensitivity·mean(Δx). If no maximum passes that test the
// global maximum of the difference curve is used.
//
// ok is false when the curve has fewer than two samples or is flat.
func Knee(y []float64, sensitivity float64) (index int, ok bool) {
	n := len(y)
	if n < 2 {
		return 0, false
	}

	ymin, ymax := y[0], y[0]
	for _, v := range y {
		ymin = min(ymin, v)
		ymax = max(ymax, v)
	}
	if ymax == ymin {
		return 0, false
	}

	span := ymax - ymin
	xs := make([]float64, n)
	diff := make([]float64, n)
	for i := range n {
		xs[i] = float64(i) / float64(n-1)
		// Convex increasing: flip(max - y) turns the elbow into a knee.
		yt := 1 - (y[n-1-i]-ymin)/span
		diff[i] = yt - xs[i]
	}

	isMax := make([]bool, n)
	isMin := make([]bool, n)
	var maxima []int
	for i := range n {
		left := diff[max(i-1, 0)]
		right := diff[min(i+1, n-1)]
		if diff[i] >= left && diff[i] >= right {
			isMax[i] = true
			maxima = append(maxima, i)
		}
		if diff[i] <= left && diff[i] <= right {
			isMin[i] = true
		}
	}

	// mean |Δx| of evenly spaced samples
	step := 1 / float64(n-1)

	var threshold float64
	thresholdIndex := 0
	for i := maxima[0]; i < n-1; i++ {
		if isMax[i] {
			threshold = diff[i] - sensitivity*step
			thresholdIndex = i
		}
		if isMin[i] {
			threshold = 0
		}
		if diff[i+1] < threshold {
			return n - 1 - thresholdIndex, true
		}
	}

	best := 0
	for i := range n {
		if diff[i] > diff[best] {
			best = i
		}
	}
	return n - 1 - best, true
}
