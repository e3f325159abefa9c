package domain

import "github.com/shopspring/decimal"

const cubicCmPerM3 = -6

// Product is a shippable item. Weight is in kilograms, dimensions in centimetres.
type Product struct {
	ID     int64
	Name   string
	Weight decimal.Decimal
	Length decimal.Decimal
	Width  decimal.Decimal
	Height decimal.Decimal
}

// Volume returns length*width*height in cubic metres.
func (p Product) Volume() decimal.Decimal {
	return p.Length.Mul(p.Width).Mul(p.Height).Shift(cubicCmPerM3)
}

func (p Product) Valid() bool {
	return p.Weight.IsPositive() &&
		p.Length.IsPositive() &&
		p.Width.IsPositive() &&
		p.Height.IsPositive()
}
