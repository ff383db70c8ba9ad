package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmountToCentsRoundsInsteadOfTruncating(t *testing.T) {
	assert.Equal(t, int64(29), amountToCents(0.29))
	assert.Equal(t, int64(1999), amountToCents(19.99))
	assert.Equal(t, int64(21000), amountToCents(210.00))
	assert.Equal(t, int64(0), amountToCents(0))
}
