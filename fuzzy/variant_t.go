package fuzzy

// NewVariantT builds the richer 4-antecedent, 720-rule controller: signed
// wind speed ([-30,30], for Policy B's signed stencil), humidity,
// temperature, and burning-neighbor count, against an 8-level fire_prob
// consequent. The rule table is generated by an additive scoring
// function over the Cartesian product of term categories, reproducing
// the reference's weight tables and cutoffs exactly.
func NewVariantT() *Controller {
	wind := Variable{
		Name: "wind_speed", Min: -30, Max: 30,
		Terms: []Term{
			{"head storm", Trapezoidal(-30, -30, -25, -22)},
			{"head strong", Trapezoidal(-25, -22, -18, -15)},
			{"head moderate", Trapezoidal(-18, -15, -12, -10)},
			{"head light", Trapezoidal(-12, -10, -5, -2)},
			{"calm", Trapezoidal(-5, -2, 2, 5)},
			{"fair light", Trapezoidal(2, 5, 10, 12)},
			{"fair moderate", Trapezoidal(10, 12, 15, 18)},
			{"fair strong", Trapezoidal(15, 18, 22, 25)},
			{"fair storm", Trapezoidal(22, 25, 30, 30)},
		},
	}
	humidity := Variable{
		Name: "humidity", Min: 0, Max: 100,
		Terms: []Term{
			{"humid", Trapezoidal(60, 70, 100, 100)},
			{"normal", Trapezoidal(40, 50, 60, 70)},
			{"dry", Trapezoidal(20, 30, 40, 50)},
			{"very_dry", Trapezoidal(0, 0, 20, 30)},
		},
	}
	temperature := Variable{
		Name: "temperature", Min: -20, Max: 50,
		Terms: []Term{
			{"cold", Trapezoidal(-20, -20, 0, 10)},
			{"cool", Trapezoidal(5, 10, 15, 20)},
			{"warm", Trapezoidal(15, 20, 30, 35)},
			{"hot", Trapezoidal(30, 35, 50, 50)},
		},
	}
	neighbors := Variable{
		Name: "burning_neighbors", Min: 0, Max: 8,
		Terms: []Term{
			{"none", Triangular(0, 0, 1)},
			{"few", Triangular(0, 2, 4)},
			{"some", Triangular(2, 4, 6)},
			{"many", Triangular(4, 6, 8)},
			{"all", Triangular(6, 8, 8)},
		},
	}
	firePr := Variable{
		Name: "fire_prob", Min: 0, Max: 100,
		Terms: []Term{
			{"extremely_low", Trapezoidal(0, 0, 5, 15)},
			{"very_low", Trapezoidal(5, 15, 20, 30)},
			{"low", Trapezoidal(20, 30, 35, 45)},
			{"medium_low", Trapezoidal(35, 45, 50, 60)},
			{"medium", Trapezoidal(50, 60, 65, 75)},
			{"medium_high", Trapezoidal(65, 75, 80, 90)},
			{"high", Trapezoidal(80, 85, 90, 95)},
			{"very_high", Trapezoidal(90, 95, 100, 100)},
		},
	}

	tempWeights := []int{1, 2, 3, 4} // cold, cool, warm, hot
	windWeights := []int{-4, -3, -2, -1, 0, 2, 3, 4, 5}
	// order matches wind.Terms: head storm, head strong, head moderate,
	// head light, calm, fair light, fair moderate, fair strong, fair storm
	humidityWeights := []int{1, 2, 3, 4} // humid, normal, dry, very_dry
	neighborWeights := []int{1, 2, 3, 4, 5}

	levelFor := func(total int) int {
		switch {
		case total < 10:
			return firePr.TermIndex("extremely_low")
		case total < 15:
			return firePr.TermIndex("very_low")
		case total < 20:
			return firePr.TermIndex("low")
		case total < 25:
			return firePr.TermIndex("medium_low")
		case total < 30:
			return firePr.TermIndex("medium")
		case total < 35:
			return firePr.TermIndex("medium_high")
		case total < 40:
			return firePr.TermIndex("high")
		default:
			return firePr.TermIndex("very_high")
		}
	}

	var rules []Rule
	for ti, tw := range tempWeights {
		for wi, ww := range windWeights {
			for hi, hw := range humidityWeights {
				for ni, nw := range neighborWeights {
					total := tw*2 + ww*5 + hw*3 + nw*2
					rules = append(rules, Rule{
						Antecedents: []int{wi, hi, ni, ti},
						Consequent:  levelFor(total),
					})
				}
			}
		}
	}

	// Antecedents order is wind, humidity, neighbors, temperature to
	// match Evaluate's documented input order for the signed-wind variant.
	return NewController([]Variable{wind, humidity, neighbors, temperature}, firePr, rules)
}
