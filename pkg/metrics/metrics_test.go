package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRefinement(t *testing.T) {
	before := testutil.ToFloat64(RefinementsTotal.WithLabelValues("quad", ModeUniform))
	ObserveRefinement("quad", ModeUniform, 24, 48, 26, 2*time.Millisecond)

	after := testutil.ToFloat64(RefinementsTotal.WithLabelValues("quad", ModeUniform))
	if after != before+1 {
		t.Errorf("expected counter to increase by 1, got %v -> %v", before, after)
	}
	if n := testutil.CollectAndCount(ChildComponents); n != 3 {
		t.Errorf("expected 3 component series, got %d", n)
	}
}

func TestObserveFailure(t *testing.T) {
	before := testutil.ToFloat64(RefinementErrorsTotal.WithLabelValues("tri"))
	ObserveFailure("tri")
	if got := testutil.ToFloat64(RefinementErrorsTotal.WithLabelValues("tri")); got != before+1 {
		t.Errorf("expected error counter %v, got %v", before+1, got)
	}
}
