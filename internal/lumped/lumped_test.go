package lumped

import (
	"math"
	"testing"

	"github.com/san-kum/heatsim/internal/heat"
)

func sphere(t *testing.T) heat.Params {
	t.Helper()
	p, err := heat.Derive(heat.Input{
		Shape: heat.Sphere, Density: 700, SpecificHeat: 1500, Conductivity: 0.105,
		Convection: 375, Initial: 300, Ambient: 773, Radius: 0.000175,
		RadialSteps: 100, TimeSteps: 1000, MaxTime: 0.8,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCharacteristicLength(t *testing.T) {
	p := sphere(t)
	tests := []struct {
		shape heat.Shape
		want  float64
	}{
		{heat.Slab, 0.000175},
		{heat.Cylinder, 0.000175 / 2},
		{heat.Sphere, 0.000175 / 3},
	}
	for _, tt := range tests {
		p.Shape = tt.shape
		if got := CharacteristicLength(p); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("%v: Lc = %g, want %g", tt.shape, got, tt.want)
		}
	}
}

func TestTimeConstant(t *testing.T) {
	p := sphere(t)
	tau := TimeConstant(p)
	if math.Abs(tau-0.1633) > 1e-3 {
		t.Errorf("tau = %g, want ~0.163", tau)
	}

	// exp(-Bi Fo) and exp(-t/tau) are the same curve
	tt := 0.3
	if got, want := math.Exp(-Biot(p)*Fourier(p, tt)), math.Exp(-tt/tau); math.Abs(got-want) > 1e-12 {
		t.Errorf("Bi*Fo form %g != t/tau form %g", got, want)
	}
}

func TestTemperature(t *testing.T) {
	p := sphere(t)
	if got := Temperature(p, 0); got != 300 {
		t.Errorf("T(0) = %g", got)
	}
	got := Temperature(p, TimeConstant(p))
	want := 773 - 473*math.Exp(-1)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("T(tau) = %g, want %g", got, want)
	}

	series := Series(p, p.TimeAxis())
	for i := 1; i < len(series); i++ {
		if series[i] < series[i-1] || series[i] > 773 {
			t.Fatalf("series not monotone toward ambient at %d", i)
		}
	}
}

func TestValid(t *testing.T) {
	p := sphere(t)
	if Biot(p) > 0.25 {
		t.Errorf("Bi = %g", Biot(p))
	}
	p.Conductivity = 10
	if !Valid(p) {
		t.Errorf("conductive particle should be lumped, Bi = %g", Biot(p))
	}
}

func TestChurchillBelowAmbient(t *testing.T) {
	p := sphere(t)
	for _, n := range []float64{5, 10, 100} {
		v := Churchill(p, 2, n)
		if v >= p.Ambient || v <= 0 {
			t.Errorf("n=%g: %g", n, v)
		}
	}
}

func TestChurchillLimits(t *testing.T) {
	heating := sphere(t)
	for _, tt := range []float64{0.05, 0.2, 1} {
		lumpedT := Temperature(heating, tt)
		if got := Churchill(heating, tt, 1000); math.Abs(got-lumpedT) > 1e-3*lumpedT {
			t.Errorf("heating t=%g: %g, want lumped %g", tt, got, lumpedT)
		}
	}

	cooling := heating
	cooling.Initial, cooling.Ambient = heating.Ambient, heating.Initial
	for _, tt := range []float64{0.05, 0.2} {
		if got := Churchill(cooling, tt, 1000); math.Abs(got-cooling.Ambient) > 1e-3*cooling.Ambient {
			t.Errorf("cooling t=%g: %g, want ambient %g", tt, got, cooling.Ambient)
		}
	}
}

func TestChurchillSeries(t *testing.T) {
	p := sphere(t)
	times := []float64{0, 0.1, 0.4}
	got := ChurchillSeries(p, times, 10)
	for i, tt := range times {
		if got[i] != Churchill(p, tt, 10) {
			t.Errorf("series[%d] = %g", i, got[i])
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Errorf("heating series not increasing at %d: %v", i, got)
		}
	}
}
