package fuzzy

import "fmt"

// Variant selects one of the two rule-base sizes spec.md names.
type Variant int

const (
	// VariantS is the simple 3-antecedent, 80-rule controller, for use
	// with an unsigned wind signal (wind.ScaledIsotropic).
	VariantS Variant = iota
	// VariantT is the richer 4-antecedent, 720-rule controller, for use
	// with a signed wind signal (wind.SignedDirectional).
	VariantT
)

func (v Variant) String() string {
	switch v {
	case VariantS:
		return "S"
	case VariantT:
		return "T"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// New builds the controller for the named variant. Evaluate's inputs
// are, in order, (wind_speed, humidity, burning_neighbors) for VariantS
// and (wind_speed, humidity, burning_neighbors, temperature) for
// VariantT; wind_speed is unsigned for VariantS and signed for VariantT.
func New(v Variant) (*Controller, error) {
	switch v {
	case VariantS:
		return NewVariantS(), nil
	case VariantT:
		return NewVariantT(), nil
	default:
		return nil, fmt.Errorf("fuzzy: unknown variant %v", v)
	}
}
