package testutil

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/ethereum/go-ethereum/common"
)

// RandomAlphaNum generates random alphanumeric string
// in case length <= 0 it returns an error
func RandomAlphaNum(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be greater than 0")
	}

	return gofakeit.Password(true, true, true, false, false, length), nil
}

// RandomAddress returns a random non zero address.
func RandomAddress() common.Address {
	for {
		addr := common.HexToAddress(gofakeit.HexUint(160))
		if addr != (common.Address{}) {
			return addr
		}
	}
}
