package payment

import "testing"

func TestNewPaymentValidation(t *testing.T) {
	if _, err := NewPayment("", "desc", 100, EUR, "btc"); err == nil {
		t.Error("expected error for empty charge id")
	}
	if _, err := NewPayment("abc", "desc", 0, EUR, "btc"); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := NewPayment("abc", "desc", 100, "", "btc"); err == nil {
		t.Error("expected error for empty currency")
	}

	p, err := NewPayment("abc", "desc", 550, EUR, "btc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Status != StatusCreated {
		t.Errorf("new payment status = %s, want %s", p.Status, StatusCreated)
	}
}

func TestStatusHelpers(t *testing.T) {
	cases := []struct {
		status    Status
		settled   bool
		terminal  bool
		canCancel bool
	}{
		{StatusCreated, false, false, true},
		{StatusPending, false, false, true},
		{StatusApproved, false, false, true},
		{StatusPaid, true, true, false},
		{StatusUnderpaid, true, true, false},
		{StatusOverpaid, true, true, false},
		{StatusCancelled, false, true, false},
	}

	for _, c := range cases {
		p := &Payment{Status: c.status}
		if p.IsSettled() != c.settled {
			t.Errorf("%s: IsSettled() = %v, want %v", c.status, p.IsSettled(), c.settled)
		}
		if p.IsTerminal() != c.terminal {
			t.Errorf("%s: IsTerminal() = %v, want %v", c.status, p.IsTerminal(), c.terminal)
		}
		if p.CanCancel() != c.canCancel {
			t.Errorf("%s: CanCancel() = %v, want %v", c.status, p.CanCancel(), c.canCancel)
		}
	}
}

func TestManuallySettledSentinel(t *testing.T) {
	p := &Payment{ChargeID: ZeroChargeID}
	if !p.IsManuallySettled() {
		t.Error("all-zero charge id should report manually settled")
	}

	p = &Payment{ChargeID: "5c7ba2d6-defc-4a77-8b57-a5df0d6c3d2f"}
	if p.IsManuallySettled() {
		t.Error("regular charge id should not report manually settled")
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		in   Money
		want string
	}{
		{550, "5.50"},
		{1000, "10.00"},
		{1, "0.01"},
		{0, "0.00"},
		{-550, "-5.50"},
	}

	for _, c := range cases {
		if got := c.in.Format(); got != c.want {
			t.Errorf("Money(%d).Format() = %q, want %q", c.in, got, c.want)
		}
	}
}
