package models

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Money is a monetary amount held at two decimal places.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d half away from zero to two decimal places.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

func MustMoney(s string) Money {
	return NewMoney(decimal.RequireFromString(s))
}

func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}

func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *Money) Scan(value interface{}) error {
	if err := m.Decimal.Scan(value); err != nil {
		return err
	}
	m.Decimal = m.Decimal.Round(2)
	return nil
}
