package models

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
)

const (
	PriceMaxDigits     = 5
	PriceDecimalPlaces = 2
)

var priceLimit = decimal.New(1, PriceMaxDigits-PriceDecimalPlaces)

// Price is a fixed-point amount stored as decimal(5,2). It always renders
// with exactly two fractional digits.
type Price struct {
	decimal.Decimal
}

func NewPrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return Price{d}, nil
}

func MustPrice(s string) Price {
	p, err := NewPrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) String() string {
	return p.StringFixed(PriceDecimalPlaces)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

func (p *Price) UnmarshalJSON(b []byte) error {
	if err := p.Decimal.UnmarshalJSON(b); err != nil {
		return &json.UnmarshalTypeError{Value: string(b), Type: reflect.TypeOf(Price{})}
	}
	return nil
}

// Validate reports a message suitable for a field error, or nil.
func (p Price) Validate() error {
	if !p.Equal(p.Round(PriceDecimalPlaces)) {
		return fmt.Errorf("Ensure that there are no more than %d decimal places.", PriceDecimalPlaces)
	}
	if p.Abs().GreaterThanOrEqual(priceLimit) {
		return fmt.Errorf("Ensure that there are no more than %d digits in total.", PriceMaxDigits)
	}
	return nil
}
