package cache_test

import (
	"testing"
	"time"

	"github.com/fxquant/fxlib/cache"
	"github.com/fxquant/fxlib/curve"
)

func quotes(t *testing.T, rates ...float64) []curve.InstrumentQuote {
	t.Helper()
	out := make([]curve.InstrumentQuote, 0, len(rates))
	for i, r := range rates {
		q, err := curve.NewInstrumentQuote(float64(i+1), r, curve.SourceSwap)
		if err != nil {
			t.Fatalf("NewInstrumentQuote: %v", err)
		}
		out = append(out, q)
	}
	return out
}

func TestFingerprintSensitivity(t *testing.T) {
	t.Parallel()

	base := cache.Fingerprint(quotes(t, 0.045, 0.047, 0.050))
	same := cache.Fingerprint(quotes(t, 0.045, 0.047, 0.050))
	if base != same {
		t.Fatal("identical quote sets hash differently")
	}

	bumped := cache.Fingerprint(quotes(t, 0.045, 0.0471, 0.050))
	if base == bumped {
		t.Fatal("rate bump did not change fingerprint")
	}
}

func TestGetOrBuild(t *testing.T) {
	t.Parallel()

	cc, err := cache.New(1<<20, time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	qs := quotes(t, 0.045, 0.047, 0.050)

	c1, err := cc.GetOrBuild("USD", qs, curve.MethodQLLogLinear)
	if err != nil {
		t.Fatalf("GetOrBuild: %v", err)
	}
	cc.Wait()

	c2, err := cc.GetOrBuild("USD", qs, curve.MethodQLLogLinear)
	if err != nil {
		t.Fatalf("GetOrBuild (cached): %v", err)
	}
	if c1 != c2 {
		t.Error("second call did not return the cached curve")
	}

	// Different method is a different entry.
	c3, err := cc.GetOrBuild("USD", qs, curve.MethodLinear)
	if err != nil {
		t.Fatalf("GetOrBuild (linear): %v", err)
	}
	if c3 == c1 {
		t.Error("method change reused cached curve")
	}
}

func TestGetOrBuildPropagatesErrors(t *testing.T) {
	t.Parallel()

	cc, err := cache.New(1<<20, time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := cc.GetOrBuild("USD", quotes(t, 0.045), curve.MethodLinear); err == nil {
		t.Error("single-quote bootstrap succeeded unexpectedly")
	}
}
