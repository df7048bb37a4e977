package money

import "strconv"

// Format форматирует сумму в рублях для отображения:
// разряды разделяются пробелом, добавляется знак валюты
// Format(7000) -> "7 000 ₽"
func Format(amount int64) string {
	return FormatNumber(amount) + " ₽"
}

// FormatNumber форматирует целое число с разделением разрядов пробелами
func FormatNumber(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)

	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, d)
	}

	if negative {
		return "-" + string(out)
	}
	return string(out)
}
