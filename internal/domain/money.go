package domain

import (
	"fmt"
	"strings"
)

// Деньги хранятся в минимальных единицах (центах), чтобы арифметика
// количества и цены оставалась точной; наружу значения уходят строками
// с двумя знаками после запятой.

// FormatMinor переводит сумму в минимальных единицах в строку вида "20.00".
func FormatMinor(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Суммы ограничены десятью значащими цифрами, как DECIMAL(10, 2) в схеме
// первоисточника. Лимит заодно исключает переполнение int64 при разборе.
const maxPriceDigits = 10

// ParseMinor разбирает десятичную строку с не более чем двумя знаками после
// точки в сумму в минимальных единицах. Отрицательные значения, лишняя
// точность и значения длиннее maxPriceDigits отклоняются.
func ParseMinor(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrPriceInvalid)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: negative value %q", ErrPriceInvalid, s)
	}

	whole, frac := s, ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole, frac = s[:idx], s[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrPriceInvalid, s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if len(strings.TrimLeft(whole+frac, "0")) > maxPriceDigits {
		return 0, fmt.Errorf("%w: %q has more than %d digits", ErrPriceInvalid, s, maxPriceDigits)
	}

	var minor int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %q", ErrPriceInvalid, s)
		}
		minor = minor*10 + int64(r-'0')
	}
	return minor, nil
}
