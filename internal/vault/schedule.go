package vault

import (
	sdkmath "cosmossdk.io/math"
)

// WeeksSinceRelease returns how many release intervals have started since the
// initial lock ended, capped at the tranche count. The first interval starts
// the moment the lock ends.
func (p Params) WeeksSinceRelease(depositTime, now int64) uint64 {
	releaseStart := depositTime + p.lockSeconds()
	if now < releaseStart {
		return 0
	}

	weeks := 1 + uint64((now-releaseStart)/p.intervalSeconds())
	if weeks > uint64(p.ReleaseTranches) {
		return uint64(p.ReleaseTranches)
	}
	return weeks
}

// unlocked returns how much of the reference amount the schedule has unlocked.
func (p Params) unlocked(pos *Position, now int64) sdkmath.Int {
	tranches := sdkmath.NewInt(int64(p.ReleaseTranches))

	if p.Curve == CurveLinear {
		releaseStart := pos.DepositTime + p.lockSeconds()
		if now < releaseStart {
			return sdkmath.ZeroInt()
		}
		duration := p.intervalSeconds() * int64(p.ReleaseTranches)
		elapsed := now - releaseStart
		if elapsed >= duration {
			return pos.ReferenceAmount
		}
		return pos.ReferenceAmount.MulRaw(elapsed).QuoRaw(duration)
	}

	weeks := sdkmath.NewIntFromUint64(p.WeeksSinceRelease(pos.DepositTime, now))
	return pos.ReferenceAmount.Mul(weeks).Quo(tranches)
}

// Releasable returns how many staked tokens the position may withdraw now:
// the unlocked part of the reference amount minus what was already
// withdrawn since the last deposit.
func (p Params) Releasable(pos *Position, now int64) sdkmath.Int {
	withdrawn := pos.ReferenceAmount.Sub(pos.Amount)
	if withdrawn.IsNegative() {
		withdrawn = sdkmath.ZeroInt()
	}

	releasable := p.unlocked(pos, now).Sub(withdrawn)
	if releasable.IsNegative() {
		return sdkmath.ZeroInt()
	}
	if releasable.GT(pos.Amount) {
		return pos.Amount
	}
	return releasable
}

// Matured reports whether the whole reference amount has been unlocked.
func (p Params) Matured(pos *Position, now int64) bool {
	if p.Curve == CurveLinear {
		end := pos.DepositTime + p.lockSeconds() + p.intervalSeconds()*int64(p.ReleaseTranches)
		return now >= end
	}
	return p.WeeksSinceRelease(pos.DepositTime, now) >= uint64(p.ReleaseTranches)
}
