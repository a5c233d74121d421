package event

import "testing"

func TestParseType(t *testing.T) {
	cases := []struct {
		in   string
		want Type
	}{
		{"charge:confirmed", TypeConfirmed},
		{"charge:resolved", TypeResolved},
		{"charge:pending", TypePending},
		{"charge:failed", TypeFailed},
		{"charge:created", TypeUnknown},
		{"something:new", TypeUnknown},
		{"", TypeUnknown},
	}

	for _, c := range cases {
		if got := ParseType(c.in); got != c.want {
			t.Errorf("ParseType(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestSettlementLineMinorUnits(t *testing.T) {
	cases := []struct {
		amount string
		want   int64
	}{
		{"5.50", 550},
		{"10", 1000},
		{"0.01", 1},
		{"9.999", 1000}, // rounds
		{"not-a-number", 0},
		{"", 0},
	}

	for _, c := range cases {
		l := SettlementLine{Amount: c.amount, Currency: "EUR"}
		if got := l.MinorUnits(); got != c.want {
			t.Errorf("MinorUnits(%q) = %d, want %d", c.amount, got, c.want)
		}
	}
}

func TestSettledMinorUnitsSumsLines(t *testing.T) {
	n := &Notification{
		Settlements: []SettlementLine{
			{Amount: "5.50", Currency: "EUR"},
			{Amount: "2.25", Currency: "EUR"},
			{Amount: "bogus", Currency: "EUR"},
		},
	}

	if got := n.SettledMinorUnits(); got != 775 {
		t.Fatalf("SettledMinorUnits() = %d, want 775", got)
	}

	empty := &Notification{}
	if got := empty.SettledMinorUnits(); got != 0 {
		t.Fatalf("SettledMinorUnits() on empty = %d, want 0", got)
	}
}
