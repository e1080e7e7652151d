package service

import (
	"fmt"
	"math/rand"
)

// GenerateCardNumber produces a card number in the fleet's printed format:
// a fixed "90." prefix, a two-digit block, an eight-digit block and a check
// digit. The number is treated as opaque text everywhere else.
func GenerateCardNumber() string {
	block1 := 10 + rand.Intn(89)
	block2 := 10_000_000 + rand.Intn(90_000_000)
	check := rand.Intn(10)
	return fmt.Sprintf("90.%02d.%08d-%d", block1, block2, check)
}
