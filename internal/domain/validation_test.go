package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableNumber(t *testing.T) {
	for n := MinTableNumber; n <= MaxTableNumber; n++ {
		got, err := ParseTableNumber(fmt.Sprint(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}

	rejected := map[string]error{
		"0":   ErrTableOutOfRange,
		"21":  ErrTableOutOfRange,
		"-3":  ErrTableOutOfRange,
		"abc": ErrTableNotNumber,
		"5.5": ErrTableNotNumber,
		"":    ErrTableNotNumber,
	}
	for input, want := range rejected {
		_, err := ParseTableNumber(input)
		assert.ErrorIs(t, err, want, "input %q", input)
	}
}

func TestValidatePhone(t *testing.T) {
	accepted := []string{"+1234567890", "12345678901234", "+15551234567", "123456789012345"}
	for _, p := range accepted {
		assert.NoError(t, ValidatePhone(p), p)
	}

	rejected := []string{"123", "12345678901234567", "+123456789", "phone", "+1 555 123 4567", "++1234567890"}
	for _, p := range rejected {
		assert.ErrorIs(t, ValidatePhone(p), ErrInvalidPhone, p)
	}
}

func TestRequireText(t *testing.T) {
	got, err := RequireText("  Ana ")
	require.NoError(t, err)
	assert.Equal(t, "Ana", got)

	_, err = RequireText("   ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestParseFulfillment(t *testing.T) {
	cases := map[string]Fulfillment{
		"Delivery":      FulfillmentDelivery,
		"Pickup":        FulfillmentPickup,
		"Drink On-Site": FulfillmentOnSite,
		"OnSite":        FulfillmentOnSite,
	}
	for input, want := range cases {
		got, err := ParseFulfillment(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFulfillment("Teleport")
	assert.ErrorIs(t, err, ErrInvalidFulfillment)
}
