package api

import (
	"net/http"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	"github.com/pisfinance/pis-vault/internal/auth"
	"github.com/pisfinance/pis-vault/internal/types"
	"github.com/pisfinance/pis-vault/internal/utils"
	"github.com/pisfinance/pis-vault/pkg"
)

func poolIDParam(r *http.Request) (uint64, error) {
	raw := chi.URLParam(r, "pid")
	pid, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, types.NewBadRequestError("invalid pool id %q", raw)
	}
	return pid, nil
}

func addressParam(r *http.Request, name string) (common.Address, error) {
	addr, err := pkg.ParseAddress(chi.URLParam(r, name))
	if err != nil {
		return common.Address{}, types.NewBadRequestError("invalid %s: %v", name, err)
	}
	return addr, nil
}

func parseAddressField(name, raw string) (common.Address, error) {
	addr, err := pkg.ParseAddress(raw)
	if err != nil {
		return common.Address{}, types.NewBadRequestError("invalid %s: %v", name, err)
	}
	return addr, nil
}

func parseAmountField(raw string) (sdkmath.Int, error) {
	amount, err := utils.ParseAmount(raw)
	if err != nil {
		return sdkmath.Int{}, types.NewBadRequestError("invalid amount: %v", err)
	}
	return amount, nil
}

// caller returns the account on whose behalf the request acts.
func caller(r *http.Request) (common.Address, error) {
	raw := r.Header.Get(callerHeader)
	if raw == "" {
		return common.Address{}, types.NewUnauthorizedError("missing %s header", callerHeader)
	}
	addr, err := pkg.ParseAddress(raw)
	if err != nil {
		return common.Address{}, types.NewBadRequestError("invalid %s header: %v", callerHeader, err)
	}
	return addr, nil
}

func (h *Handler) ownerCapability(r *http.Request) (*auth.Capability, error) {
	addr, err := caller(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Owner().Authorize(addr)
}
