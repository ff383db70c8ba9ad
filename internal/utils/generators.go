package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// GenerateOrderNumber returns a human-readable order number of the form
// ORD<yymmdd><4 digits>. The random suffix is not collision-checked; at
// single-venue volumes the probability of a same-day collision is accepted.
func GenerateOrderNumber() string {
	datePart := time.Now().Format("060102")
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(10000))
	return fmt.Sprintf("ORD%s%04d", datePart, randomNum.Int64())
}

// GenerateID returns a unique id for rows created outside the database
// (in-memory store, uploaded files).
func GenerateID(prefix string) string {
	timestamp := time.Now().UnixNano()
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999))
	return fmt.Sprintf("%s_%d_%06d", prefix, timestamp, randomNum.Int64())
}

// GeneratePaymentID mirrors GenerateID with the prefix used for payment
// transaction ids.
func GeneratePaymentID() string {
	return GenerateID("pay")
}
