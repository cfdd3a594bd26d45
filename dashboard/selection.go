package dashboard

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"taxi-dashboard/dataset"
)

// AllPayments disables the payment condition of the filter.
const AllPayments = "All"

var (
	ErrInvalidRange   = errors.New("distance range lower bound is greater than upper bound")
	ErrUnknownPayment = errors.New("unknown payment method")
)

// Selection is the user-chosen distance range and payment constraint of one
// session.
type Selection struct {
	DistanceMin float64 `json:"distance_min"`
	DistanceMax float64 `json:"distance_max"`
	Payment     string  `json:"payment"`
}

// DefaultSelection spans the whole slider with every payment method.
func DefaultSelection(ds *dataset.Dataset) Selection {
	return Selection{DistanceMin: 0, DistanceMax: ds.SliderMax(), Payment: AllPayments}
}

// PaymentChoices lists the selector options: "All" first, then the sorted
// payment values of the dataset.
func PaymentChoices(ds *dataset.Dataset) []string {
	return append([]string{AllPayments}, ds.PaymentMethods()...)
}

// Clamp bounds both ends of the range to [0, SliderMax], the way the slider
// does.
func (s Selection) Clamp(ds *dataset.Dataset) Selection {
	hi := ds.SliderMax()
	s.DistanceMin = math.Min(math.Max(s.DistanceMin, 0), hi)
	s.DistanceMax = math.Min(math.Max(s.DistanceMax, 0), hi)
	return s
}

// Validate checks the preconditions the filter relies on.
func (s Selection) Validate(ds *dataset.Dataset) error {
	if math.IsNaN(s.DistanceMin) || math.IsNaN(s.DistanceMax) || s.DistanceMin > s.DistanceMax {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, s.DistanceMin, s.DistanceMax)
	}
	if s.Payment != AllPayments && !ds.HasPayment(s.Payment) {
		return fmt.Errorf("%w: %q", ErrUnknownPayment, s.Payment)
	}
	return nil
}

// Key identifies the selection for memoization.
func (s Selection) Key() string {
	return strconv.FormatFloat(s.DistanceMin, 'g', -1, 64) + ":" +
		strconv.FormatFloat(s.DistanceMax, 'g', -1, 64) + ":" + s.Payment
}

// Matches reports whether a trip with the given distance and payment belongs
// to the filtered table.
func (s Selection) Matches(distance float64, payment string) bool {
	if distance < s.DistanceMin || distance > s.DistanceMax {
		return false
	}
	return s.Payment == AllPayments || payment == s.Payment
}
