package pkg

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ParseAddress parses a 0x prefixed hex account address. The zero address
// is rejected since it can never sign for anything.
func ParseAddress(address string) (common.Address, error) {
	address = strings.TrimSpace(address)
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid address %q", address)
	}

	addr := common.HexToAddress(address)
	if addr == (common.Address{}) {
		return common.Address{}, fmt.Errorf("zero address is not allowed")
	}

	return addr, nil
}

// ParseAddresses parses every entry of addresses, failing on the first bad one.
func ParseAddresses(addresses []string) ([]common.Address, error) {
	result := make([]common.Address, 0, len(addresses))
	for _, a := range addresses {
		addr, err := ParseAddress(a)
		if err != nil {
			return nil, err
		}
		result = append(result, addr)
	}

	return result, nil
}
