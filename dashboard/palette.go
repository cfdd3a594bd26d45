package dashboard

import "hash/fnv"

// DefaultColor is used for a single-method scatter whose method has no entry
// in PaymentColors.
const DefaultColor = "#1f77b4"

// PaymentColors is the fixed scatter palette of the known payment methods.
var PaymentColors = map[string]string{
	"cash":        "#1f77b4",
	"credit card": "#ff7f0e",
}

// fallbackPalette colors payment methods missing from PaymentColors.
var fallbackPalette = []string{
	"#2ca02c", "#d62728", "#9467bd", "#8c564b",
	"#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// barPalette is assigned to comparison bars by position.
var barPalette = []string{"#1f77b4", "#ff7f0e"}

// ColorFor returns the scatter color of a payment method. Unknown methods
// hash to a fallback color, so the same name always gets the same color.
func ColorFor(payment string) string {
	if c, ok := PaymentColors[payment]; ok {
		return c
	}
	h := fnv.New32a()
	h.Write([]byte(payment))
	return fallbackPalette[h.Sum32()%uint32(len(fallbackPalette))]
}

// selectedColor is the color of every point when a single method is chosen.
func selectedColor(payment string) string {
	if c, ok := PaymentColors[payment]; ok {
		return c
	}
	return DefaultColor
}
