package sim_test

import (
	"context"
	"fmt"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/heatsim/internal/heat"
	"github.com/san-kum/heatsim/internal/sim"
	"github.com/san-kum/heatsim/internal/solvers"
)

const tol = 1e-9

func papadikis(initial, ambient float64) heat.Params {
	p, err := heat.Derive(heat.Input{
		Shape:        heat.Sphere,
		Density:      700,
		SpecificHeat: 1500,
		Conductivity: 0.105,
		Convection:   375,
		Initial:      initial,
		Ambient:      ambient,
		Radius:       0.000175,
		RadialSteps:  100,
		TimeSteps:    1000,
		MaxTime:      0.8,
	})
	Expect(err).NotTo(HaveOccurred())
	return p
}

func runAll(p heat.Params) map[heat.Strategy]*heat.Field {
	fields := make(map[heat.Strategy]*heat.Field)
	for _, s := range heat.Strategies() {
		solver, err := solvers.New(s)
		Expect(err).NotTo(HaveOccurred())
		res, err := sim.New(solver).Run(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		fields[s] = res.Field
	}
	return fields
}

var _ = Describe("Papadikis sphere", func() {
	var (
		p      heat.Params
		fields map[heat.Strategy]*heat.Field
	)

	Context("heating from 300 K in a 773 K gas", func() {
		BeforeEach(func() {
			p = papadikis(300, 773)
			fields = runAll(p)
		})

		It("keeps the center below the surface below the gas", func() {
			for s, f := range fields {
				final := f.Final()
				center, surface := final[0], final[len(final)-1]
				Expect(center).To(BeNumerically("<", surface), string(s))
				Expect(surface).To(BeNumerically("<=", 773+tol), string(s))
				Expect(center).To(BeNumerically(">", 700), string(s))
			}
		})

		It("agrees across strategies at every step", func() {
			ref := fields[heat.Dense]
			for _, s := range []heat.Strategy{heat.LU, heat.Banded} {
				f := fields[s]
				Expect(f.Rows()).To(Equal(ref.Rows()))
				for i := 0; i < f.Rows(); i++ {
					for j := 0; j < f.Nodes(); j++ {
						want := ref.At(i, j)
						Expect(math.Abs(f.At(i, j) - want)).To(BeNumerically("<=", tol*want),
							"%s step %d node %d", s, i, j)
					}
				}
			}
		})

		It("stays within the initial and ambient bounds", func() {
			lo, hi := p.Bounds()
			for _, f := range fields {
				min, max := f.Extent()
				Expect(min).To(BeNumerically(">=", lo-tol))
				Expect(max).To(BeNumerically("<=", hi+tol))
			}
		})

		It("warms every node monotonically", func() {
			f := fields[heat.LU]
			for _, history := range [][]float64{f.Center(), f.Surface()} {
				for i := 1; i < len(history); i++ {
					Expect(history[i]).To(BeNumerically(">=", history[i-1]-tol))
				}
			}
		})
	})

	Context("cooling from 773 K in a 300 K gas", func() {
		BeforeEach(func() {
			p = papadikis(773, 300)
			fields = runAll(p)
		})

		It("cools monotonically toward the gas", func() {
			for s, f := range fields {
				for _, history := range [][]float64{f.Center(), f.Surface()} {
					for i := 1; i < len(history); i++ {
						Expect(history[i]).To(BeNumerically("<=", history[i-1]+tol), string(s))
					}
					Expect(history[len(history)-1]).To(BeNumerically(">=", 300-tol))
				}
				final := f.Final()
				Expect(final[0]).To(BeNumerically(">", final[len(final)-1]))
			}
		})
	})
})

var _ = Describe("Uniform field", func() {
	DescribeTable("is a fixed point when initial equals ambient",
		func(shape heat.Shape) {
			p := papadikis(500, 500)
			p.Shape = shape
			res, err := sim.New(solvers.NewLU()).Run(context.Background(), p)
			Expect(err).NotTo(HaveOccurred())
			for _, v := range res.Field.Final() {
				Expect(v).To(BeNumerically("~", 500, 1e-9*500))
			}
		},
		Entry("slab", heat.Slab),
		Entry("cylinder", heat.Cylinder),
		Entry("sphere", heat.Sphere),
	)
})

var _ = Describe("Shape ordering", func() {
	It("heats a sphere faster than a cylinder faster than a slab", func() {
		var centers []float64
		for _, shape := range heat.Shapes() {
			p := papadikis(300, 773)
			p.Shape = shape
			res, err := sim.New(solvers.NewLU()).Run(context.Background(), p)
			Expect(err).NotTo(HaveOccurred())
			centers = append(centers, res.Field.Center()[100])
		}
		Expect(centers[0]).To(BeNumerically("<", centers[1]))
		Expect(centers[1]).To(BeNumerically("<", centers[2]))
	})
})

var _ = Describe("Coarse meshes", func() {
	body := func(shape heat.Shape, nr int, initial, ambient float64) {
		p, err := heat.Derive(heat.Input{
			Shape:        shape,
			Density:      700,
			SpecificHeat: 1500,
			Conductivity: 0.105,
			Convection:   375,
			Initial:      initial,
			Ambient:      ambient,
			Radius:       0.000175,
			RadialSteps:  nr,
			TimeSteps:    200,
			MaxTime:      0.8,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Nodes).To(Equal(nr + 1))

		fields := runAll(p)
		ref := fields[heat.Dense]
		lo, hi := p.Bounds()
		for s, f := range fields {
			Expect(f.Rows()).To(Equal(p.TimeSteps+1), "strategy %s", s)
			for i := 0; i < f.Rows(); i++ {
				row, want := f.Row(i), ref.Row(i)
				for j, v := range row {
					Expect(v).To(BeNumerically(">=", lo-tol*hi), "%s step %d node %d", s, i, j)
					Expect(v).To(BeNumerically("<=", hi+tol*hi), "%s step %d node %d", s, i, j)
					Expect(math.Abs(v-want[j])).To(BeNumerically("<=", tol*math.Abs(want[j])), "%s step %d node %d", s, i, j)
				}
			}
		}
	}

	args := []interface{}{body}
	for _, shape := range heat.Shapes() {
		for _, nr := range []int{1, 2, 3} {
			args = append(args,
				Entry(fmt.Sprintf("%s nr=%d heating", shape, nr), shape, nr, 300.0, 773.0),
				Entry(fmt.Sprintf("%s nr=%d cooling", shape, nr), shape, nr, 773.0, 300.0),
			)
		}
	}
	DescribeTable("stay bounded and agree across strategies", args...)
})
