package api

import (
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/services"
	"github.com/pisfinance/pis-vault/internal/vault"
)

type Handler struct {
	svc *services.Service
}

type AmountRequest struct {
	Amount string `json:"amount"`
}

type AmountResponse struct {
	Amount sdkmath.Int `json:"amount"`
}

type AddPoolRequest struct {
	StakedToken string `json:"staked_token"`
	Weight      uint64 `json:"weight"`
	WithUpdate  bool   `json:"with_update"`
}

type AddPoolResponse struct {
	PoolID uint64 `json:"pool_id"`
}

type SetWeightRequest struct {
	Weight     uint64 `json:"weight"`
	WithUpdate bool   `json:"with_update"`
}

type PoolLengthResponse struct {
	Length uint64 `json:"length"`
}

type WeeksResponse struct {
	Weeks uint64 `json:"weeks"`
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) error {
	if _, err := h.svc.Vault().IsInitialized(r.Context()); err != nil {
		return err
	}
	return ok(w, map[string]string{"status": "ok"})
}

func (h *Handler) getState(w http.ResponseWriter, r *http.Request) error {
	state, err := h.svc.Vault().State(r.Context())
	if err != nil {
		return err
	}
	return ok(w, state)
}

func (h *Handler) getPendingRewards(w http.ResponseWriter, r *http.Request) error {
	pending, err := h.svc.Vault().PendingRewards(r.Context())
	if err != nil {
		return err
	}
	return ok(w, AmountResponse{Amount: pending})
}

func (h *Handler) listPools(w http.ResponseWriter, r *http.Request) error {
	pools, err := h.svc.Vault().ListPools(r.Context())
	if err != nil {
		return err
	}
	if pools == nil {
		pools = []*vault.Pool{}
	}
	return ok(w, pools)
}

func (h *Handler) getPoolLength(w http.ResponseWriter, r *http.Request) error {
	length, err := h.svc.Vault().PoolLength(r.Context())
	if err != nil {
		return err
	}
	return ok(w, PoolLengthResponse{Length: length})
}

func (h *Handler) getPool(w http.ResponseWriter, r *http.Request) error {
	pid, err := poolIDParam(r)
	if err != nil {
		return err
	}
	pool, err := h.svc.Vault().PoolInfo(r.Context(), pid)
	if err != nil {
		return err
	}
	return ok(w, pool)
}

func (h *Handler) addPool(w http.ResponseWriter, r *http.Request) error {
	capability, err := h.ownerCapability(r)
	if err != nil {
		return err
	}
	var req AddPoolRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	token, err := parseAddressField("staked_token", req.StakedToken)
	if err != nil {
		return err
	}

	pid, err := h.svc.Vault().Add(r.Context(), capability, req.Weight, token, req.WithUpdate)
	if err != nil {
		return err
	}
	return ok(w, AddPoolResponse{PoolID: pid})
}

func (h *Handler) setPoolWeight(w http.ResponseWriter, r *http.Request) error {
	capability, err := h.ownerCapability(r)
	if err != nil {
		return err
	}
	pid, err := poolIDParam(r)
	if err != nil {
		return err
	}
	var req SetWeightRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	if err := h.svc.Vault().Set(r.Context(), capability, pid, req.Weight, req.WithUpdate); err != nil {
		return err
	}
	return h.getPool(w, r)
}

func (h *Handler) updatePool(w http.ResponseWriter, r *http.Request) error {
	pid, err := poolIDParam(r)
	if err != nil {
		return err
	}
	if err := h.svc.Vault().UpdatePool(r.Context(), pid); err != nil {
		return err
	}
	return h.getPool(w, r)
}

func (h *Handler) massUpdatePools(w http.ResponseWriter, r *http.Request) error {
	if err := h.svc.Vault().MassUpdatePools(r.Context()); err != nil {
		return err
	}
	return h.listPools(w, r)
}

// stakingCall resolves the caller and pool of a staking request and answers
// with the caller's position once op succeeds.
func (h *Handler) stakingCall(
	w http.ResponseWriter,
	r *http.Request,
	op func(pid uint64, user common.Address) error,
) error {
	user, err := caller(r)
	if err != nil {
		return err
	}
	pid, err := poolIDParam(r)
	if err != nil {
		return err
	}

	if err := op(pid, user); err != nil {
		return err
	}
	log.Ctx(r.Context()).Debug().
		Uint64("pool_id", pid).
		Str("user", user.Hex()).
		Str("path", r.URL.Path).
		Msg("staking call succeeded")

	pos, err := h.svc.Vault().UserInfo(r.Context(), pid, user)
	if err != nil {
		return err
	}
	return ok(w, pos)
}

func (h *Handler) deposit(w http.ResponseWriter, r *http.Request) error {
	var req AmountRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return err
	}
	return h.stakingCall(w, r, func(pid uint64, user common.Address) error {
		return h.svc.Vault().Deposit(r.Context(), pid, user, amount)
	})
}

func (h *Handler) withdraw(w http.ResponseWriter, r *http.Request) error {
	var req AmountRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return err
	}
	return h.stakingCall(w, r, func(pid uint64, user common.Address) error {
		return h.svc.Vault().Withdraw(r.Context(), pid, user, amount)
	})
}

func (h *Handler) quitPool(w http.ResponseWriter, r *http.Request) error {
	return h.stakingCall(w, r, func(pid uint64, user common.Address) error {
		return h.svc.Vault().QuitPool(r.Context(), pid, user)
	})
}

func (h *Handler) exitEarly(w http.ResponseWriter, r *http.Request) error {
	return h.stakingCall(w, r, func(pid uint64, user common.Address) error {
		return h.svc.Vault().ExitEarly(r.Context(), pid, user)
	})
}

func (h *Handler) poolAndUser(r *http.Request) (uint64, common.Address, error) {
	pid, err := poolIDParam(r)
	if err != nil {
		return 0, common.Address{}, err
	}
	user, err := addressParam(r, "user")
	if err != nil {
		return 0, common.Address{}, err
	}
	return pid, user, nil
}

func (h *Handler) getUserInfo(w http.ResponseWriter, r *http.Request) error {
	pid, user, err := h.poolAndUser(r)
	if err != nil {
		return err
	}
	pos, err := h.svc.Vault().UserInfo(r.Context(), pid, user)
	if err != nil {
		return err
	}
	return ok(w, pos)
}

func (h *Handler) getPendingPIS(w http.ResponseWriter, r *http.Request) error {
	pid, user, err := h.poolAndUser(r)
	if err != nil {
		return err
	}
	pending, err := h.svc.Vault().PendingPIS(r.Context(), pid, user)
	if err != nil {
		return err
	}
	return ok(w, AmountResponse{Amount: pending})
}

func (h *Handler) getReleasable(w http.ResponseWriter, r *http.Request) error {
	pid, user, err := h.poolAndUser(r)
	if err != nil {
		return err
	}
	releasable, err := h.svc.Vault().ComputeReleasableLP(r.Context(), pid, user)
	if err != nil {
		return err
	}
	return ok(w, AmountResponse{Amount: releasable})
}

func (h *Handler) getWeeksSinceRelease(w http.ResponseWriter, r *http.Request) error {
	pid, user, err := h.poolAndUser(r)
	if err != nil {
		return err
	}
	weeks, err := h.svc.Vault().WeeksSinceLPReleaseTilNow(r.Context(), pid, user)
	if err != nil {
		return err
	}
	return ok(w, WeeksResponse{Weeks: weeks})
}

func (h *Handler) listPositions(w http.ResponseWriter, r *http.Request) error {
	user, err := addressParam(r, "user")
	if err != nil {
		return err
	}
	positions, err := h.svc.Vault().Positions(r.Context(), user)
	if err != nil {
		return err
	}
	if positions == nil {
		positions = []*vault.Position{}
	}
	return ok(w, positions)
}
