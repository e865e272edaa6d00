package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinorUnits(t *testing.T) {
	assert.Equal(t, "42.50", FormatMinorUnits(4250, 2))
	assert.Equal(t, "0.01", FormatMinorUnits(1, 2))
	assert.Equal(t, "-10.00", FormatMinorUnits(-1000, 2))
	assert.Equal(t, "1250", FormatMinorUnits(1250, 0)) // zero-exponent currencies
}

func TestFromMinorUnits(t *testing.T) {
	d := FromMinorUnits(123456, 2)
	assert.Equal(t, "1234.56", d.String())
}
