package validation

import (
	"regexp"
	"strings"
)

var phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

var phoneReplacer = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone удаляет из номера пробелы, дефисы, точки и скобки.
func NormalizePhone(phone string) string {
	return phoneReplacer.Replace(strings.TrimSpace(phone))
}

// IsValidPhone проверяет номер в международном формате: необязательный "+" и до 15 цифр.
// Номер нормализуется перед проверкой.
func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(NormalizePhone(phone))
}
