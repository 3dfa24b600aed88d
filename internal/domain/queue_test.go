package domain

import "testing"

func TestParseQueueStatus(t *testing.T) {
	for _, s := range []string{"queued", "matched", "cancelled"} {
		got, err := ParseQueueStatus(s)
		if err != nil {
			t.Fatalf("ParseQueueStatus(%q): %v", s, err)
		}
		if string(got) != s {
			t.Fatalf("ParseQueueStatus(%q) = %q", s, got)
		}
	}
}

func TestParseQueueStatus_Corrupt(t *testing.T) {
	// "idle" is derived from row absence and must never be persisted;
	// anything outside the closed set is a data-integrity error.
	for _, s := range []string{"idle", "", "pending", "MATCHED", "done"} {
		if _, err := ParseQueueStatus(s); err == nil {
			t.Fatalf("ParseQueueStatus(%q) accepted a value outside the closed set", s)
		}
	}
}

func TestCurrencyEventSigned(t *testing.T) {
	earn := &CurrencyEvent{Direction: DirectionEarn, Amount: 40}
	if earn.Signed() != 40 {
		t.Fatalf("earn Signed() = %d, want 40", earn.Signed())
	}
	spend := &CurrencyEvent{Direction: DirectionSpend, Amount: 15}
	if spend.Signed() != -15 {
		t.Fatalf("spend Signed() = %d, want -15", spend.Signed())
	}
}

func TestParseCurrencyAndDirection(t *testing.T) {
	if _, err := ParseCurrency("shards"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseCurrency("gold"); err == nil {
		t.Fatal("expected error for unknown currency")
	}
	if _, err := ParseDirection("spend"); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseDirection("refund"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}
