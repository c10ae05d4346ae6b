package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSensitiveData_CardNumberKeepsLastFour(t *testing.T) {
	input := map[string]any{"card_number": "1234567890123456", "name": "John Doe"}

	masked := MaskSensitiveData(input)

	assert.Equal(t, "****-****-****-3456", masked["card_number"])
	assert.Equal(t, "John Doe", masked["name"])
	// original must not be touched
	assert.Equal(t, "1234567890123456", input["card_number"])
}

func TestMaskSensitiveData_CVCFullyMasked(t *testing.T) {
	masked := MaskSensitiveData(map[string]any{"cvc": "1234", "name": "John Doe"})

	assert.Equal(t, "***", masked["cvc"])
	assert.Equal(t, "John Doe", masked["name"])
}

func TestMaskSensitiveData_BothFields(t *testing.T) {
	masked := MaskSensitiveData(map[string]any{
		"card_number": "5555555555554444",
		"cvc":         "123",
		"name":        "John Doe",
	})

	assert.Equal(t, "****-****-****-4444", masked["card_number"])
	assert.Equal(t, "***", masked["cvc"])
}

func TestMaskSensitiveData_ShortCardNumberKeptWholeBehindPrefix(t *testing.T) {
	masked := MaskSensitiveData(map[string]any{"card_number": "123"})

	assert.Equal(t, "****-****-****-123", masked["card_number"])
}

func TestMaskSensitiveData_NoSensitiveFields(t *testing.T) {
	input := map[string]any{"name": "John Doe", "age": 30}

	assert.Equal(t, input, MaskSensitiveData(input))
}

func TestMaskSensitiveData_NilInputYieldsEmptyMap(t *testing.T) {
	masked := MaskSensitiveData(nil)

	assert.NotNil(t, masked)
	assert.Empty(t, masked)
}

func TestMaskSensitiveData_EmptyMap(t *testing.T) {
	assert.Empty(t, MaskSensitiveData(map[string]any{}))
}

func TestMaskSensitiveData_NonStringSensitiveValueUntouched(t *testing.T) {
	masked := MaskSensitiveData(map[string]any{"card_number": 4111})

	assert.Equal(t, 4111, masked["card_number"])
}
