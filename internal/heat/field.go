package heat

import "math"

// Field is the temperature history of a run: one row per time level, one
// column per node. Rows share a single backing slice.
type Field struct {
	Shape Shape
	Times []float64
	Radii []float64

	data  []float64
	nodes int
	rows  int
}

// NewField allocates a field for p with every row set to the initial
// temperature.
func NewField(p Params) *Field {
	f := &Field{
		Shape: p.Shape,
		Times: p.TimeAxis(),
		Radii: p.Radii(),
		data:  make([]float64, (p.TimeSteps+1)*p.Nodes),
		nodes: p.Nodes,
		rows:  p.TimeSteps + 1,
	}
	for i := range f.data {
		f.data[i] = p.Initial
	}
	return f
}

// FieldFromRows builds a field from stored rows. Every row must have
// len(radii) entries.
func FieldFromRows(shape Shape, times, radii []float64, rows [][]float64) *Field {
	f := &Field{
		Shape: shape,
		Times: times,
		Radii: radii,
		nodes: len(radii),
		rows:  len(rows),
		data:  make([]float64, 0, len(rows)*len(radii)),
	}
	for _, r := range rows {
		f.data = append(f.data, r[:f.nodes]...)
	}
	return f
}

func (f *Field) Rows() int  { return f.rows }
func (f *Field) Nodes() int { return f.nodes }

// Row returns row i. The slice aliases the field.
func (f *Field) Row(i int) []float64 {
	return f.data[i*f.nodes : (i+1)*f.nodes : (i+1)*f.nodes]
}

func (f *Field) At(i, j int) float64 {
	return f.data[i*f.nodes+j]
}

// Final returns the last computed row.
func (f *Field) Final() []float64 {
	return f.Row(f.rows - 1)
}

// Node returns the history of node j.
func (f *Field) Node(j int) []float64 {
	out := make([]float64, f.rows)
	for i := range out {
		out[i] = f.data[i*f.nodes+j]
	}
	return out
}

func (f *Field) Center() []float64  { return f.Node(0) }
func (f *Field) Surface() []float64 { return f.Node(f.nodes - 1) }

// Truncate drops every row from n on. It is used when a run stops early.
func (f *Field) Truncate(n int) {
	if n < 0 || n >= f.rows {
		return
	}
	f.rows = n
	f.data = f.data[:n*f.nodes]
	if len(f.Times) > n {
		f.Times = f.Times[:n]
	}
}

// Extent returns the smallest and largest temperature in the field.
func (f *Field) Extent() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range f.data {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := *f
	c.data = append([]float64(nil), f.data...)
	c.Times = append([]float64(nil), f.Times...)
	c.Radii = append([]float64(nil), f.Radii...)
	return &c
}

// firstInvalid returns the index of the first non-finite value in row, or -1.
func firstInvalid(row []float64) int {
	for j, v := range row {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return j
		}
	}
	return -1
}

// CheckRow returns a StepError wrapping ErrNumericalDivergence when row holds
// a NaN or Inf.
func CheckRow(step int, t float64, row []float64) error {
	j := firstInvalid(row)
	if j < 0 {
		return nil
	}
	return &StepError{Step: step, Node: j, Time: t, Value: row[j], Wrapped: ErrNumericalDivergence}
}
