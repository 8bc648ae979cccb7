package noise

import "testing"

func TestValue_Range(t *testing.T) {
	for y := -40.0; y < 40.0; y += 0.93 {
		for x := -40.0; x < 40.0; x += 0.87 {
			v := Value(x, y, 3.5)
			if v < 0 || v >= 1 {
				t.Fatalf("noise at (%.2f,%.2f) = %f, out of [0,1)", x, y, v)
			}
		}
	}
}

func TestValue_Deterministic(t *testing.T) {
	a := Value(1234.5, 987.25, 60)
	for i := 0; i < 10; i++ {
		if b := Value(1234.5, 987.25, 60); a != b {
			t.Fatalf("noise not deterministic: %v != %v", a, b)
		}
	}
}

func TestValue_MatchesLatticeAtIntegerPoints(t *testing.T) {
	// At lattice points the interpolation weights collapse to one corner.
	for i := -5; i <= 5; i++ {
		x, y := float64(i), float64(i*3)
		if got, want := Value(x*8, y*8, 8), lattice(x, y); got != want {
			t.Fatalf("Value at lattice (%v,%v) = %v, want %v", x, y, got, want)
		}
	}
}

func TestValue_Continuous(t *testing.T) {
	const eps = 1e-6
	for x := 0.0; x < 20; x += 0.37 {
		a := Value(x, 4.2, 1)
		b := Value(x+eps, 4.2, 1)
		if d := a - b; d > 1e-3 || d < -1e-3 {
			t.Fatalf("jump of %v at x=%v", d, x)
		}
	}
}

func TestFractal_NormalisedAndZeroWeight(t *testing.T) {
	oct := []Octave{{Scale: 50, Weight: 0.6}, {Scale: 20, Weight: 0.3, OffsetX: 17}, {Scale: 6, Weight: 0.1, OffsetY: 31}}
	for x := 0.0; x < 500; x += 13.7 {
		v := Fractal(x, x*0.5, oct)
		if v < 0 || v >= 1 {
			t.Fatalf("fractal out of range at %v: %v", x, v)
		}
	}
	if v := Fractal(1, 2, nil); v != 0 {
		t.Fatalf("empty octave list = %v, want 0", v)
	}
}

func TestSmoothstep(t *testing.T) {
	if Smoothstep(-1) != 0 || Smoothstep(2) != 1 || Smoothstep(0.5) != 0.5 {
		t.Fatalf("smoothstep endpoints wrong")
	}
}
