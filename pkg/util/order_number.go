package util

import (
	"fmt"
	"math/rand"
	"time"
)

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateOrderNumber produces a human-readable order number of the form
// TUFF-20260115-K7Q2XN. Uniqueness is enforced by the orders table; callers
// retry on a duplicate key error.
func GenerateOrderNumber() string {
	suffix := make([]byte, 6)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	return fmt.Sprintf("TUFF-%s-%s", time.Now().Format("20060102"), suffix)
}
