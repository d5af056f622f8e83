// Package fuzzy implements a Mamdani fuzzy inference engine over a small
// fixed rule table, selectable as one of two variants (S, T), and used
// by the automaton to compute a per-cell ignition probability.
package fuzzy

import "gonum.org/v1/gonum/floats"

// Rule is a single Mamdani rule: a term index per antecedent (parallel
// to Controller.Antecedents) and the consequent term it fires.
type Rule struct {
	Antecedents []int // term index into the matching Controller.Antecedents[i]
	Consequent  int   // term index into Controller.Consequent.Terms
}

// Controller is a precompiled Mamdani inference engine: a pure function
// over its antecedent/consequent universes and rule table, with no
// mutable state between evaluations, per spec.md §4.4's determinism
// requirement. Construction compiles a centroid discretization of the
// consequent universe; Evaluate is then cheap and safe to call
// concurrently from multiple decision-phase workers.
type Controller struct {
	Antecedents []Variable
	Consequent  Variable
	Rules       []Rule

	// universe is the discretized consequent domain used for centroid
	// defuzzification; precomputed once since Consequent never changes.
	universe []float64
}

// discretizationStep is the resolution (in consequent units) used to
// discretize fire_prob's [0,100] universe for centroid defuzzification.
const discretizationStep = 1.0

// NewController compiles a Controller from its antecedent/consequent
// universes and rule table.
func NewController(antecedents []Variable, consequent Variable, rules []Rule) *Controller {
	c := &Controller{
		Antecedents: antecedents,
		Consequent:  consequent,
		Rules:       rules,
	}
	for x := consequent.Min; x <= consequent.Max; x += discretizationStep {
		c.universe = append(c.universe, x)
	}
	return c
}

// Evaluate runs Mamdani inference over inputs, one per antecedent in
// Controller.Antecedents order, and returns the centroid-defuzzified
// fire probability in [0,100]. Per spec.md §4.4, this is a total
// function: any out-of-universe input, or an aggregate consequent with
// no positive mass, yields 0.0 rather than an error.
func (c *Controller) Evaluate(inputs ...float64) float64 {
	if len(inputs) != len(c.Antecedents) {
		return 0.0
	}
	for i, v := range c.Antecedents {
		if !v.InRange(inputs[i]) {
			return 0.0
		}
	}

	aggregated := make([]float64, len(c.universe))
	for _, rule := range c.Rules {
		strength := 1.0
		for i, termIdx := range rule.Antecedents {
			mu := c.Antecedents[i].Terms[termIdx].MF(inputs[i])
			if mu < strength {
				strength = mu
			}
		}
		if strength <= 0 {
			continue
		}
		consequentMF := c.Consequent.Terms[rule.Consequent].MF
		for i, x := range c.universe {
			clipped := consequentMF(x)
			if clipped > strength {
				clipped = strength
			}
			if clipped > aggregated[i] {
				aggregated[i] = clipped
			}
		}
	}

	mass := floats.Sum(aggregated)
	if mass <= 0 {
		return 0.0
	}
	return floats.Dot(c.universe, aggregated) / mass
}
