package assignment

import "errors"

var (
	// ErrInsufficientFunds rejects a purchase whose cost exceeds the
	// learner's current balance. Nothing is persisted.
	ErrInsufficientFunds = errors.New("not enough coins")

	// ErrAlreadyUnlocked signals a benign repeat of a one-directional
	// purchase; callers treat it as a no-op, not a failure.
	ErrAlreadyUnlocked = errors.New("already unlocked")
)

// The economy engine is pure: it takes the latest confirmed balance and
// progress row and returns the intended new state for the caller to
// persist. Nothing here touches storage.

func CanAfford(balance, cost int) bool { return cost <= balance }

// ApplyUnlock spends asg.UnlockCost to clear the locked overlay. A row
// that is already unlocked short-circuits without a second debit.
func ApplyUnlock(balance int, asg Assignment, prog Progress) (newBalance int, updated Progress, err error) {
	if !prog.Locked {
		return balance, prog, ErrAlreadyUnlocked
	}
	if !CanAfford(balance, asg.UnlockCost) {
		return balance, prog, ErrInsufficientFunds
	}
	prog.Locked = false
	prog.CoinsSpentOnUnlocks += asg.UnlockCost
	return balance - asg.UnlockCost, prog, nil
}

// ApplyHints spends asg.HintCost to reveal the hint list. The flag is
// monotonic: once true, later calls are no-ops regardless of balance.
func ApplyHints(balance int, asg Assignment, prog Progress) (newBalance int, updated Progress, err error) {
	if prog.HintsUnlocked {
		return balance, prog, ErrAlreadyUnlocked
	}
	if !CanAfford(balance, asg.HintCost) {
		return balance, prog, ErrInsufficientFunds
	}
	prog.HintsUnlocked = true
	prog.CoinsSpentOnHints += asg.HintCost
	return balance - asg.HintCost, prog, nil
}
