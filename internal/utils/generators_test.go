package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	number := GenerateOrderNumber()

	assert.Regexp(t, regexp.MustCompile(`^ORD\d{10}$`), number)
	assert.Contains(t, number, time.Now().Format("060102"))
}

func TestGenerateIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateID("tbl")
		assert.Regexp(t, regexp.MustCompile(`^tbl_\d+_\d{6}$`), id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	assert.Regexp(t, regexp.MustCompile(`^pay_\d+_\d{6}$`), GeneratePaymentID())
}
