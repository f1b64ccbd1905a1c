// Package payment simulates the checkout step.  No gateway is contacted:
// any chosen method succeeds and yields a reference for the receipt.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Methods are the payment options offered on the payment page.
var Methods = []string{"Credit Card", "Debit Card", "PayPal", "Cash"}

// ErrNoMethod is returned when no payment method was chosen.
var ErrNoMethod = errors.New("no payment method")

// Stub approves every payment that names a method.
type Stub struct {
	now func() time.Time
}

// NewStub returns a Stub using the wall clock for references.
func NewStub() *Stub { return &Stub{now: time.Now} }

// Charge "collects" amount via method and returns a PAY-<nanos> reference.
func (s *Stub) Charge(_ context.Context, amount float64, method string) (string, error) {
	if strings.TrimSpace(method) == "" {
		return "", ErrNoMethod
	}
	return fmt.Sprintf("PAY-%d", s.now().UnixNano()), nil
}
