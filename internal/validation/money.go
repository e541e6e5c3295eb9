// Package validation содержит функции разбора и валидации входных данных.
package validation

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/barberpos/internal/model"
)

// MoneyPlaces задаёт количество знаков после запятой у денежных сумм.
const MoneyPlaces = 2

// maxMoney соответствует NUMERIC(10,2).
var maxMoney = decimal.New(1, 8)

// ParseMoney разбирает денежную сумму в формате "25.00", "25,00" или "1.234,56".
// Пустая строка означает ноль.
func ParseMoney(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}

	s = strings.ReplaceAll(s, " ", "")
	// Экспоненту и явный знак "+" форма не принимает.
	if strings.ContainsAny(s, "eE+") {
		return decimal.Zero, model.ErrInvalidAmount
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, model.ErrInvalidAmount
	}

	if err := CheckMoney(d); err != nil {
		return decimal.Zero, err
	}

	return d, nil
}

// CheckMoney проверяет, что сумма неотрицательна, умещается в NUMERIC(10,2)
// и имеет не больше двух знаков после запятой.
func CheckMoney(d decimal.Decimal) error {
	if d.IsNegative() {
		return model.ErrInvalidAmount
	}
	if d.GreaterThanOrEqual(maxMoney) {
		return model.ErrInvalidAmount
	}
	if !d.Equal(d.Round(MoneyPlaces)) {
		return model.ErrInvalidAmount
	}
	return nil
}

// FormatMoney форматирует сумму с двумя знаками после запятой.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyPlaces)
}
