package fuzzy

// NewVariantS builds the simple 3-antecedent, 80-rule controller: wind
// speed (unsigned, [0,30]), humidity ([0,100]), and burning-neighbor
// count ([0,8]) against a 5-level fire_prob consequent. Grounded on the
// reference's simpler revision, whose rule table is reproduced verbatim
// below, one rule per (wind x humidity x neighbors) combination.
func NewVariantS() *Controller {
	wind := Variable{
		Name: "wind_speed", Min: 0, Max: 30,
		Terms: []Term{
			{"calm", Triangular(0, 0, 5)},
			{"moderate", Triangular(0, 10, 20)},
			{"strong", Triangular(10, 20, 30)},
			{"storm", Triangular(20, 30, 30)},
		},
	}
	humidity := Variable{
		Name: "humidity", Min: 0, Max: 100,
		Terms: []Term{
			{"dry", Triangular(0, 0, 30)},
			{"normal", Triangular(10, 40, 70)},
			{"humid", Triangular(50, 80, 100)},
			{"very_humid", Triangular(70, 100, 100)},
		},
	}
	neighbors := Variable{
		Name: "burning_neighbors", Min: 0, Max: 8,
		Terms: []Term{
			{"none", Triangular(0, 0, 1)},
			{"few", Triangular(0, 2, 4)},
			{"several", Triangular(2, 4, 6)},
			{"many", Triangular(4, 6, 8)},
			{"all", Triangular(6, 8, 8)},
		},
	}
	firePr := Variable{
		Name: "fire_prob", Min: 0, Max: 100,
		Terms: []Term{
			{"very_low", Triangular(0, 0, 20)},
			{"low", Triangular(0, 20, 40)},
			{"medium", Triangular(20, 50, 80)},
			{"high", Triangular(60, 80, 100)},
			{"very_high", Triangular(80, 100, 100)},
		},
	}

	const (
		veryLow = iota
		low
		medium
		high
		veryHigh
	)

	// windBlock[w][h] lists the 5 neighbor-indexed consequent levels
	// (none,few,several,many,all) for wind category w and humidity
	// category h, h ordered to match humidity.Terms (dry, normal,
	// humid, very_humid). Transcribed verbatim from the reference's
	// per-wind-speed rule blocks.
	windBlock := [4][4][5]int{
		// calm
		{
			{medium, high, veryHigh, veryHigh, veryHigh}, // dry
			{low, medium, high, high, veryHigh},          // normal
			{veryLow, low, medium, medium, high},         // humid
			{veryLow, veryLow, low, low, medium},         // very_humid
		},
		// moderate
		{
			{high, veryHigh, veryHigh, veryHigh, veryHigh},
			{medium, high, veryHigh, veryHigh, veryHigh},
			{low, medium, high, high, veryHigh},
			{veryLow, low, medium, medium, high},
		},
		// strong
		{
			{veryHigh, veryHigh, veryHigh, veryHigh, veryHigh},
			{high, veryHigh, veryHigh, veryHigh, veryHigh},
			{medium, high, veryHigh, veryHigh, veryHigh},
			{low, medium, high, high, veryHigh},
		},
		// storm
		{
			{veryHigh, veryHigh, veryHigh, veryHigh, veryHigh},
			{veryHigh, veryHigh, veryHigh, veryHigh, veryHigh},
			{high, veryHigh, veryHigh, veryHigh, veryHigh},
			{medium, high, veryHigh, veryHigh, veryHigh},
		},
	}

	var rules []Rule
	for w := 0; w < 4; w++ {
		for h := 0; h < 4; h++ {
			for n := 0; n < 5; n++ {
				rules = append(rules, Rule{
					Antecedents: []int{w, h, n},
					Consequent:  windBlock[w][h][n],
				})
			}
		}
	}

	return NewController([]Variable{wind, humidity, neighbors}, firePr, rules)
}
