package api

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/fee"
)

type FeeConfigResponse struct {
	FeeMultiplier uint64           `json:"fee_multiplier"`
	Paused        bool             `json:"paused"`
	Exempt        []common.Address `json:"exempt"`
	VaultAddress  *common.Address  `json:"vault_address,omitempty"`
}

type SetFeeMultiplierRequest struct {
	FeeMultiplier uint64 `json:"fee_multiplier"`
}

type SetPausedRequest struct {
	Paused bool `json:"paused"`
}

type EditExemptRequest struct {
	Exempt bool `json:"exempt"`
}

func newFeeConfigResponse(cfg fee.Config) FeeConfigResponse {
	resp := FeeConfigResponse{
		FeeMultiplier: cfg.FeeMultiplier,
		Paused:        cfg.Paused,
		Exempt:        cfg.Exempt,
	}
	if resp.Exempt == nil {
		resp.Exempt = []common.Address{}
	}
	if cfg.VaultAddressSet {
		addr := cfg.VaultAddress
		resp.VaultAddress = &addr
	}
	return resp
}

func (h *Handler) getFeeConfig(w http.ResponseWriter, _ *http.Request) error {
	return ok(w, newFeeConfigResponse(h.svc.Fee().Snapshot()))
}

// computeFee quotes the fee for ?amount= sent by ?sender=.
func (h *Handler) computeFee(w http.ResponseWriter, r *http.Request) error {
	sender, err := parseAddressField("sender", r.URL.Query().Get("sender"))
	if err != nil {
		return err
	}
	amount, err := parseAmountField(r.URL.Query().Get("amount"))
	if err != nil {
		return err
	}
	return ok(w, AmountResponse{Amount: h.svc.Fee().ComputeFee(amount, sender)})
}

func (h *Handler) setFeeMultiplier(w http.ResponseWriter, r *http.Request) error {
	capability, err := h.ownerCapability(r)
	if err != nil {
		return err
	}
	var req SetFeeMultiplierRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	if err := h.svc.Fee().SetFeeMultiplier(r.Context(), capability, req.FeeMultiplier); err != nil {
		return err
	}
	return h.getFeeConfig(w, r)
}

func (h *Handler) setFeePaused(w http.ResponseWriter, r *http.Request) error {
	capability, err := h.ownerCapability(r)
	if err != nil {
		return err
	}
	var req SetPausedRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	if err := h.svc.Fee().SetPaused(r.Context(), capability, req.Paused); err != nil {
		return err
	}
	return h.getFeeConfig(w, r)
}

func (h *Handler) editExemptList(w http.ResponseWriter, r *http.Request) error {
	capability, err := h.ownerCapability(r)
	if err != nil {
		return err
	}
	addr, err := addressParam(r, "address")
	if err != nil {
		return err
	}
	var req EditExemptRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	if err := h.svc.Fee().EditExemptList(r.Context(), capability, addr, req.Exempt); err != nil {
		return err
	}
	return h.getFeeConfig(w, r)
}
