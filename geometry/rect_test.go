package geometry

import (
	"math"
	"math/rand"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestToPixels(t *testing.T) {
	got := ToPixels(Rect{X: 0.1, Y: 0.2, W: 0.5, H: 0.25}, 600, 800)
	want := PixelRect{X: 60, Y: 160, Width: 300, Height: 200}
	if !approx(got.X, want.X) || !approx(got.Y, want.Y) ||
		!approx(got.Width, want.Width) || !approx(got.Height, want.Height) {
		t.Fatalf("ToPixels = %+v, want %+v", got, want)
	}

	back := FromPixels(got, 600, 800)
	if !approx(back.X, 0.1) || !approx(back.H, 0.25) {
		t.Errorf("FromPixels round trip = %+v", back)
	}
	if FromPixels(got, 0, 800) != (Rect{}) {
		t.Error("expected zero rect for zero page width")
	}
}

func TestToPDFSpace(t *testing.T) {
	got := ToPDFSpace(Rect{X: 0.1, Y: 0.1, W: 0.25, H: 0.08}, 612, 792)
	if !approx(got.X, 61.2) {
		t.Errorf("x = %v, want 61.2", got.X)
	}
	wantY := 792 - 79.2 - 63.36
	if !approx(got.Y, wantY) {
		t.Errorf("y = %v, want %v", got.Y, wantY)
	}
	if !approx(got.Width, 153) || !approx(got.Height, 63.36) {
		t.Errorf("size = %vx%v", got.Width, got.Height)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Rect
	}{
		{"inside", Rect{0.2, 0.2, 0.3, 0.3}, Rect{0.2, 0.2, 0.3, 0.3}},
		{"negative origin", Rect{-0.5, -1, 0.3, 0.3}, Rect{0, 0, 0.3, 0.3}},
		{"overflow right", Rect{0.9, 0.1, 0.5, 0.2}, Rect{0.9, 0.1, 0.1, 0.2}},
		{"origin past edge", Rect{1.5, 1.5, 0.5, 0.5}, Rect{0.99, 0.99, 0.01, 0.01}},
		{"tiny", Rect{0.5, 0.5, 0, -1}, Rect{0.5, 0.5, 0.01, 0.01}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.in)
			if !approx(got.X, tt.want.X) || !approx(got.Y, tt.want.Y) ||
				!approx(got.W, tt.want.W) || !approx(got.H, tt.want.H) {
				t.Fatalf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			if !got.Valid(MinSize-1e-12, MinSize-1e-12) {
				t.Errorf("result %+v violates page bounds", got)
			}
		})
	}
}

func TestClampFieldAlwaysValid(t *testing.T) {
	inputs := []Rect{
		{X: 2, Y: 2, W: 2, H: 2},
		{X: -3, Y: 0.99, W: 0.001, H: 0.5},
		{X: 0.97, Y: 0.985, W: 0.2, H: 0.2},
		{X: math.NaN(), Y: 0.5, W: 0.1, H: math.NaN()},
	}
	for _, in := range inputs {
		got := ClampField(in)
		if !got.Valid(FieldMinW-1e-12, FieldMinH-1e-12) {
			t.Errorf("ClampField(%+v) = %+v is not valid", in, got)
		}
	}
}

func TestSnap(t *testing.T) {
	got := Snap(Rect{X: 0.1012, Y: 0.2026, W: 0.3, H: 0.0474}, GridStep)
	if !approx(got.X, 0.1) || !approx(got.Y, 0.205) || !approx(got.H, 0.045) {
		t.Errorf("Snap = %+v", got)
	}
	if SnapValue(0.123, 0) != 0.123 {
		t.Error("zero step should leave value unchanged")
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize(Rect{X: 0.98, Y: 0.5, W: 0.3, H: 0.01})
	if !got.Valid(FieldMinW-1e-12, FieldMinH-1e-12) {
		t.Fatalf("Normalize produced invalid rect %+v", got)
	}
	if !approx(got.X, 0.96) {
		t.Errorf("x = %v, want 0.96", got.X)
	}
	if !approx(got.H, FieldMinH) {
		t.Errorf("h = %v, want %v", got.H, FieldMinH)
	}
}

func randomRect(rng *rand.Rand) Rect {
	v := func() float64 { return rng.Float64()*3 - 1 }
	return Rect{X: v(), Y: v(), W: v(), H: v()}
}

func sameRect(a, b Rect) bool {
	return approx(a.X, b.X) && approx(a.Y, b.Y) && approx(a.W, b.W) && approx(a.H, b.H)
}

func TestClampIdempotentAndValid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		name       string
		fn         func(Rect) Rect
		minW, minH float64
		exact      bool
	}{
		{"Clamp", Clamp, MinSize, MinSize, true},
		{"ClampField", ClampField, FieldMinW, FieldMinH, true},
		{"Normalize", Normalize, FieldMinW, FieldMinH, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 20000; i++ {
				in := randomRect(rng)
				once := tt.fn(in)
				if !once.Valid(tt.minW, tt.minH) {
					t.Fatalf("%s(%+v) = %+v is not valid", tt.name, in, once)
				}
				twice := tt.fn(once)
				if tt.exact && twice != once || !sameRect(twice, once) {
					t.Fatalf("%s not idempotent for %+v: %+v then %+v", tt.name, in, once, twice)
				}
			}
		})
	}
}
