package invoice

import (
	"fmt"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentPaid      PaymentStatus = "paid"
	PaymentOverdue   PaymentStatus = "overdue"
	PaymentCancelled PaymentStatus = "cancelled"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "cash"
	MethodCard         PaymentMethod = "card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodInsurance    PaymentMethod = "insurance"
	MethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodInsurance, MethodOther:
		return true
	}
	return false
}

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending: {PaymentPartial, PaymentPaid, PaymentOverdue, PaymentCancelled},
	PaymentPartial: {PaymentPaid, PaymentOverdue, PaymentCancelled},
	PaymentOverdue: {PaymentPartial, PaymentPaid, PaymentCancelled},
}

func InitialPaymentStatus() PaymentStatus {
	return PaymentPending
}

// NextPaymentStatuses lists where an invoice can move from current.
func NextPaymentStatuses(current PaymentStatus) []PaymentStatus {
	return append([]PaymentStatus(nil), paymentTransitions[current]...)
}

// CanMovePayment guards payment status changes. Totals are never touched.
func CanMovePayment(from, to PaymentStatus) error {
	for _, s := range paymentTransitions[from] {
		if s == to {
			return nil
		}
	}
	return httperr.InvalidTransitionError{
		From:    string(from),
		Action:  string(to),
		Message: fmt.Sprintf("cannot mark an invoice that is %s as %s", from, to),
	}
}
