package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegister_Idempotent(t *testing.T) {
	Register()
	Register()
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(bookingRequests.WithLabelValues("accepted"))
	IncBookingRequest("accepted")
	IncBookingRequest("accepted")
	if got := testutil.ToFloat64(bookingRequests.WithLabelValues("accepted")); got != before+2 {
		t.Errorf("期望计数 %v，实际 %v", before+2, got)
	}

	before = testutil.ToFloat64(hoursResolved.WithLabelValues("override"))
	IncHoursResolved("override")
	if got := testutil.ToFloat64(hoursResolved.WithLabelValues("override")); got != before+1 {
		t.Errorf("期望计数 %v，实际 %v", before+1, got)
	}

	before = testutil.ToFloat64(rateLimited)
	IncRateLimited()
	if got := testutil.ToFloat64(rateLimited); got != before+1 {
		t.Errorf("期望计数 %v，实际 %v", before+1, got)
	}
}
