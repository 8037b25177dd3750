package auth

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/types"
)

// Owner is the single administrator of a component. Admin operations take a
// *Capability which can only be obtained through Authorize.
type Owner struct {
	mu      sync.RWMutex
	address common.Address
}

// Capability proves that the holder was the owner at the time it was issued.
type Capability struct {
	owner  *Owner
	holder common.Address
}

func NewOwner(address common.Address) *Owner {
	return &Owner{address: address}
}

func (o *Owner) Address() common.Address {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.address
}

func (o *Owner) Authorize(caller common.Address) (*Capability, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if caller != o.address {
		return nil, types.NewUnauthorizedError("Ownable: caller is not the owner")
	}

	return &Capability{owner: o, holder: caller}, nil
}

// Check verifies that c was issued by o for its current owner.
func (o *Owner) Check(c *Capability) error {
	if c == nil || c.owner != o {
		return types.NewUnauthorizedError("Ownable: missing owner capability")
	}

	o.mu.RLock()
	defer o.mu.RUnlock()
	if c.holder != o.address {
		return types.NewUnauthorizedError("Ownable: caller is not the owner")
	}

	return nil
}

// TransferOwnership hands the role to newOwner. Capabilities issued before the
// transfer stop working.
func (o *Owner) TransferOwnership(c *Capability, newOwner common.Address) error {
	if err := o.Check(c); err != nil {
		return err
	}
	if newOwner == (common.Address{}) {
		return types.NewBadRequestError("Ownable: new owner is the zero address")
	}

	o.mu.Lock()
	o.address = newOwner
	o.mu.Unlock()

	return nil
}
