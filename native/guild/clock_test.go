package guild

import "testing"

func TestCurrentPeriodSaturatesAtZero(t *testing.T) {
	if got := CurrentPeriod(500, 1000, 10); got != 0 {
		t.Fatalf("expected 0 for now before summon_time, got %d", got)
	}
	if got := CurrentPeriod(1000, 1000, 10); got != 0 {
		t.Fatalf("expected 0 at summon_time itself, got %d", got)
	}
}

func TestCurrentPeriodIntegerDivision(t *testing.T) {
	summon := int64(0)
	periodSeconds := uint32(10)
	cases := []struct {
		nowMs int64
		want  uint64
	}{
		{9_999, 0},
		{10_000, 1},
		{25_000, 2},
		{100_000, 10},
	}
	for _, c := range cases {
		if got := CurrentPeriod(c.nowMs, summon, periodSeconds); got != c.want {
			t.Fatalf("CurrentPeriod(%d) = %d, want %d", c.nowMs, got, c.want)
		}
	}
}

func TestCurrentPeriodZeroDurationSaturates(t *testing.T) {
	if got := CurrentPeriod(1_000_000, 0, 0); got != 0 {
		t.Fatalf("expected 0 when period_duration is 0, got %d", got)
	}
}
