package util

const (
	cardNumberKey = "card_number"
	cvcKey        = "cvc"

	cardNumberPrefix = "****-****-****-"
	cvcMask          = "***"
)

// MaskSensitiveData returns a shallow copy of data safe for logging:
// card_number keeps only its last four characters behind a fixed prefix and
// cvc is fully masked. Values of four characters or fewer are kept whole
// behind the prefix. A nil input yields an empty map.
func MaskSensitiveData(data map[string]any) map[string]any {
	masked := make(map[string]any, len(data))
	for k, v := range data {
		masked[k] = v
	}

	if number, ok := masked[cardNumberKey].(string); ok && number != "" {
		masked[cardNumberKey] = cardNumberPrefix + lastFour(number)
	}
	if _, ok := masked[cvcKey].(string); ok {
		masked[cvcKey] = cvcMask
	}

	return masked
}

func lastFour(s string) string {
	if len(s) <= 4 {
		return s
	}
	return s[len(s)-4:]
}
