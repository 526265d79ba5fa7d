package leave

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Reason explains an eligibility decision.
type Reason string

const (
	ReasonInvalidInput        Reason = "invalid_input"
	ReasonUnpaidLogged        Reason = "unpaid_logged"
	ReasonInsufficientBalance Reason = "insufficient_balance"
	ReasonPayable             Reason = "payable"
	ReasonNotPayable          Reason = "not_payable"
)

// CategoryUnpaid is the one category that skips the balance check and never
// draws down hours.
const CategoryUnpaid = "unpaid leave"

// payableCategories is the fixed set of categories the employer pays wages
// for. Everything else is logged with zero pay.
var payableCategories = map[string]bool{
	"sick":         true,
	"vacation f/t": true,
	"bereavement":  true,
}

// Decision is the outcome of an eligibility check.
type Decision struct {
	Eligible bool
	Pay      decimal.Decimal
	Reason   Reason
}

// Payable reports whether a category is in the payable set.
func Payable(category string) bool {
	return payableCategories[normalizeCategory(category)]
}

// Evaluate decides whether a leave request is eligible and what it pays.
// hourlyRate is the clinician's sick-pay rate; callers pass zero when the
// clinician is absent from the rate table. Pure function, no side effects.
func Evaluate(category string, requestedHours, availableBalance float64, hourlyRate decimal.Decimal) Decision {
	if requestedHours <= 0 {
		return Decision{Eligible: false, Pay: decimal.Zero, Reason: ReasonInvalidInput}
	}

	normalized := normalizeCategory(category)
	if normalized == CategoryUnpaid {
		return Decision{Eligible: true, Pay: decimal.Zero, Reason: ReasonUnpaidLogged}
	}
	if requestedHours > availableBalance {
		return Decision{Eligible: false, Pay: decimal.Zero, Reason: ReasonInsufficientBalance}
	}
	if !payableCategories[normalized] {
		return Decision{Eligible: true, Pay: decimal.Zero, Reason: ReasonNotPayable}
	}

	pay := hourlyRate.Mul(decimal.NewFromFloat(requestedHours)).Round(2)
	return Decision{Eligible: true, Pay: pay, Reason: ReasonPayable}
}

func normalizeCategory(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
