package api

import (
	"errors"
	"net/http"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pisfinance/pis-vault/internal/ledger"
	"github.com/pisfinance/pis-vault/internal/types"
)

type TokenResponse struct {
	Address     common.Address `json:"address"`
	Symbol      string         `json:"symbol"`
	Decimals    uint8          `json:"decimals"`
	TotalSupply sdkmath.Int    `json:"total_supply"`
}

type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type ApproveRequest struct {
	Spender string `json:"spender"`
	Amount  string `json:"amount"`
}

func (h *Handler) tokenLedger(r *http.Request) (ledger.Ledger, error) {
	token, err := addressParam(r, "token")
	if err != nil {
		return nil, err
	}
	return h.svc.Ledger(token)
}

// ledgerError classifies failures of a direct ledger call.
func ledgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance), errors.Is(err, ledger.ErrInsufficientAllowance):
		return types.NewTransferFailedError(err)
	case errors.Is(err, ledger.ErrNegativeAmount):
		return types.NewBadRequestError("%v", err)
	default:
		return err
	}
}

func (h *Handler) getToken(w http.ResponseWriter, r *http.Request) error {
	l, err := h.tokenLedger(r)
	if err != nil {
		return err
	}
	supply, err := l.TotalSupply(r.Context())
	if err != nil {
		return err
	}
	return ok(w, TokenResponse{
		Address:     l.Address(),
		Symbol:      l.Symbol(),
		Decimals:    l.Decimals(),
		TotalSupply: supply,
	})
}

func (h *Handler) getBalance(w http.ResponseWriter, r *http.Request) error {
	l, err := h.tokenLedger(r)
	if err != nil {
		return err
	}
	owner, err := addressParam(r, "owner")
	if err != nil {
		return err
	}
	balance, err := l.BalanceOf(r.Context(), owner)
	if err != nil {
		return err
	}
	return ok(w, AmountResponse{Amount: balance})
}

func (h *Handler) getAllowance(w http.ResponseWriter, r *http.Request) error {
	l, err := h.tokenLedger(r)
	if err != nil {
		return err
	}
	owner, err := addressParam(r, "owner")
	if err != nil {
		return err
	}
	spender, err := addressParam(r, "spender")
	if err != nil {
		return err
	}
	allowance, err := l.Allowance(r.Context(), owner, spender)
	if err != nil {
		return err
	}
	return ok(w, AmountResponse{Amount: allowance})
}

func (h *Handler) transfer(w http.ResponseWriter, r *http.Request) error {
	from, err := caller(r)
	if err != nil {
		return err
	}
	l, err := h.tokenLedger(r)
	if err != nil {
		return err
	}
	var req TransferRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	to, err := parseAddressField("to", req.To)
	if err != nil {
		return err
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return err
	}

	if err := l.Transfer(r.Context(), from, to, amount); err != nil {
		return ledgerError(err)
	}
	balance, err := l.BalanceOf(r.Context(), from)
	if err != nil {
		return err
	}
	return ok(w, AmountResponse{Amount: balance})
}

func (h *Handler) approve(w http.ResponseWriter, r *http.Request) error {
	owner, err := caller(r)
	if err != nil {
		return err
	}
	l, err := h.tokenLedger(r)
	if err != nil {
		return err
	}
	var req ApproveRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	spender, err := parseAddressField("spender", req.Spender)
	if err != nil {
		return err
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		return err
	}

	if err := l.Approve(r.Context(), owner, spender, amount); err != nil {
		return ledgerError(err)
	}
	return ok(w, AmountResponse{Amount: amount})
}
