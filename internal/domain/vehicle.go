package domain

import "github.com/shopspring/decimal"

// Vehicle capacity limits. MaxWeight is in kilograms, MaxVolume in cubic metres.
type Vehicle struct {
	ID           int64
	Brand        string
	LicensePlate string
	MaxWeight    decimal.Decimal
	MaxVolume    decimal.Decimal
}

func (v Vehicle) HasCapacity() bool {
	return v.MaxWeight.IsPositive() && v.MaxVolume.IsPositive()
}
