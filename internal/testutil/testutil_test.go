package testutil

import (
	"errors"
	"math"
	"testing"
)

func TestAssertNoError(t *testing.T) {
	t.Parallel()

	AssertNoError(t, nil)

	ok := t.Run("unexpected error", func(t *testing.T) {
		AssertNoError(t, errors.New("boom"))
	})
	if ok {
		t.Fatal("expected subtest to fail when error is non-nil")
	}
}

func TestAssertError(t *testing.T) {
	t.Parallel()

	AssertError(t, errors.New("expected"))

	ok := t.Run("missing error", func(t *testing.T) {
		AssertError(t, nil)
	})
	if ok {
		t.Fatal("expected subtest to fail when error is nil")
	}
}

func TestAssertInDelta(t *testing.T) {
	t.Parallel()

	AssertInDelta(t, 1.0001, 1.0, 0.001)

	ok := t.Run("outside delta", func(t *testing.T) {
		AssertInDelta(t, 2.0, 1.0, 0.001)
	})
	if ok {
		t.Fatal("expected subtest to fail outside the delta")
	}
	ok = t.Run("NaN", func(t *testing.T) {
		AssertInDelta(t, math.NaN(), 1.0, 0.001)
	})
	if ok {
		t.Fatal("expected subtest to fail on NaN")
	}
}

func TestSpike(t *testing.T) {
	t.Parallel()

	x := Spike(5, 2)
	for i, v := range x {
		want := 0.0
		if i == 2 {
			want = 1.0
		}
		if v != want {
			t.Errorf("Spike(5,2)[%d] = %g, want %g", i, v, want)
		}
	}

	// An out-of-range spike index produces an all-zero trace.
	for i, v := range Spike(3, 7) {
		if v != 0 {
			t.Errorf("Spike(3,7)[%d] = %g, want 0", i, v)
		}
	}
}

func TestRicker(t *testing.T) {
	t.Parallel()

	const (
		nt = 100
		dt = 0.004
		t0 = 0.2
	)
	x := Ricker(nt, dt, 15, t0)

	// The wavelet peaks at its center time with unit amplitude.
	peak := int(t0 / dt)
	if x[peak] != 1 {
		t.Errorf("Ricker peak = %g at sample %d, want 1", x[peak], peak)
	}
	for i, v := range x {
		if v > 1 {
			t.Errorf("sample %d = %g exceeds the unit peak", i, v)
		}
	}
}

func TestConstantGather(t *testing.T) {
	t.Parallel()

	g := ConstantGather([]string{"x", "z"}, 4, 2, 1.5)
	if len(g) != 2 {
		t.Fatalf("gather has %d channels, want 2", len(g))
	}
	for ch, m := range g {
		nt, nr := m.Dims()
		if nt != 4 || nr != 2 {
			t.Errorf("channel %s shape [%d, %d], want [4, 2]", ch, nt, nr)
		}
		if m.At(3, 1) != 1.5 {
			t.Errorf("channel %s sample = %g, want 1.5", ch, m.At(3, 1))
		}
	}
}

func TestHeader(t *testing.T) {
	t.Parallel()

	h := Header(100, 8, 0.004, 25)
	if h.Nt != 100 || h.Nr != 8 || h.Dt != 0.004 || h.Dx != 25 {
		t.Errorf("header = %+v", h)
	}
	if h.Rx != nil || h.Rz != nil {
		t.Error("helper header should carry no explicit geometry")
	}
}
