package heat

import (
	"fmt"
	"strings"
)

// Shape selects the geometry of the body. Its value is the curvature
// exponent b used in the generalized conduction equation.
type Shape int

const (
	Slab Shape = iota
	Cylinder
	Sphere
)

var shapeNames = [...]string{"slab", "cylinder", "sphere"}

// Shapes lists every supported geometry in exponent order.
func Shapes() []Shape {
	return []Shape{Slab, Cylinder, Sphere}
}

func (s Shape) Valid() bool {
	return s >= Slab && s <= Sphere
}

// Exponent returns b: 0 for a slab, 1 for a cylinder, 2 for a sphere.
func (s Shape) Exponent() float64 {
	return float64(s)
}

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape maps a case-insensitive name to a Shape.
func ParseShape(name string) (Shape, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range shapeNames {
		if s == n {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown shape %q (want slab, cylinder or sphere)", ErrInvalidParameter, name)
}

// MarshalText lets shapes appear by name in JSON and YAML documents.
func (s Shape) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: shape %d", ErrInvalidParameter, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Shape) UnmarshalText(text []byte) error {
	parsed, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// coefficients holds the shape-dependent terms of the implicit scheme.
// One value is built per shape at assembly time.
type coefficients struct {
	b float64
}

func (s Shape) coefficients() coefficients {
	return coefficients{b: s.Exponent()}
}

// center returns the center-node coupling 2(1+b)Fo.
func (c coefficients) center(fo float64) float64 {
	return 2 * (1 + c.b) * fo
}

// interior returns the lower and upper couplings of interior node i.
func (c coefficients) interior(i int, fo float64) (lower, upper float64) {
	k := c.b / (2 * float64(i+1))
	return -fo * (1 - k), -fo * (1 + k)
}

// surface returns the area factor 1 + b/(2m) applied to the convective term.
func (c coefficients) surface(m int) float64 {
	return 1 + c.b/(2*float64(m))
}
