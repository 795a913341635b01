package chaos

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/chaoslab/internal/coerce"
	"github.com/san-kum/chaoslab/internal/dynamo"
)

var _ = Describe("Guarded step functions", func() {
	var registry *Registry

	BeforeEach(func() {
		registry = NewRegistry()
	})

	DescribeTable("always return a vector of the system dimension",
		func(name string, dim int, input any) {
			sys, err := registry.Lookup(name)
			Expect(err).NotTo(HaveOccurred())

			var got dynamo.State
			Expect(func() { got = sys.Step(input, nil) }).NotTo(Panic())
			Expect(got).To(HaveLen(dim))
		},
		Entry("lorenz with nil", "lorenz", 3, nil),
		Entry("lorenz with a scalar", "lorenz", 3, 4.0),
		Entry("rossler with text", "rossler", 3, "hello"),
		Entry("henon with a matrix", "henon", 2, [][]float64{{0.1, 0.2}, {0.3, 0.4}}),
		Entry("logistic with a long vector", "logistic", 1, []float64{0.2, 0.3, 0.4}),
		Entry("ikeda with a map", "ikeda", 2, map[string]any{"x": 1}),
		Entry("ikeda with a nil element", "ikeda", 2, []any{nil, 1}),
		Entry("henon with a self-referential slice", "henon", 2, selfReferential()),
	)

	Context("when the initial state is malformed", func() {
		It("replaces non-numeric input with the default state", func() {
			sys, _ := registry.Lookup("henon")
			x, outcome := sys.Normalize([]any{"0.1", "zero"})
			Expect(outcome).To(Equal(coerce.Defaulted))
			Expect(x).To(Equal(dynamo.State{0.1, 0.0}))
		})

		It("pads short input from the default state", func() {
			sys, _ := registry.Lookup("rossler")
			x, outcome := sys.Normalize([]float64{5})
			Expect(outcome).To(Equal(coerce.Padded))
			Expect(x).To(Equal(dynamo.State{5, 1, 1}))
		})

		It("truncates long input", func() {
			sys, _ := registry.Lookup("lorenz")
			x, outcome := sys.Normalize([]int{1, 2, 3, 4, 5})
			Expect(outcome).To(Equal(coerce.Truncated))
			Expect(x).To(Equal(dynamo.State{1, 2, 3}))
		})
	})

	Context("when a parameter is malformed", func() {
		It("keeps the documented default", func() {
			Expect(LorenzStep([]float64{1, 1, 1}, map[string]any{"sigma": "ten", "dt": nil})).
				To(Equal(LorenzStep([]float64{1, 1, 1}, nil)))
		})

		It("accepts numeric text", func() {
			Expect(LogisticStep(0.5, map[string]any{"r": "4"})[0]).To(BeNumerically("~", 1.0, 1e-12))
		})
	})

	Describe("trajectory drivers", func() {
		It("produce max(0, n) rows", func() {
			for _, n := range []int{-10, 0, 1, 100} {
				Expect(Ikeda(n, nil, nil)).To(HaveLen(int(math.Max(0, float64(n)))))
			}
		})

		It("stay on the Henon attractor from the default state", func() {
			series := Henon(500, nil, nil)
			for _, x := range series[100:] {
				Expect(math.Abs(x[0])).To(BeNumerically("<", 1.5))
				Expect(math.Abs(x[1])).To(BeNumerically("<", 0.5))
			}
		})
	})
})

func selfReferential() any {
	s := []any{nil}
	s[0] = s
	return s
}
