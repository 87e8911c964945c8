package stopping_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dedx/internal/stopping"
)

var _ = Describe("Engine properties", func() {
	var energies []float64

	BeforeEach(func() {
		var err error
		energies, err = stopping.ReferenceGrid().Generate()
		Expect(err).NotTo(HaveOccurred())
		Expect(energies).To(HaveLen(447))
	})

	for _, name := range stopping.DefaultRegistry().Names() {
		name := name

		Context("with model "+name, func() {
			var eng *stopping.Engine

			BeforeEach(func() {
				var err error
				eng, err = stopping.NewWithModel(stopping.Proton, stopping.Water, name)
				Expect(err).NotTo(HaveOccurred())
			})

			It("is finite and positive over the reference grid", func() {
				points, err := eng.ComputeBatch(energies)
				Expect(err).NotTo(HaveOccurred())
				for _, p := range points {
					Expect(math.IsInf(p.DEDX, 0) || math.IsNaN(p.DEDX)).To(BeFalse())
					Expect(p.DEDX).To(BeNumerically(">", 0))
				}
			})

			It("decreases strictly above 1 MeV", func() {
				points, err := eng.ComputeBatch(energies)
				Expect(err).NotTo(HaveOccurred())
				for i := 1; i < len(points); i++ {
					if points[i-1].Energy < 1 {
						continue
					}
					Expect(points[i].DEDX).To(BeNumerically("<", points[i-1].DEDX),
						"at %.2f MeV", points[i].Energy)
				}
			})

			It("rejects non-positive energies", func() {
				_, err := eng.ComputeDEDX(0)
				Expect(err).To(MatchError(stopping.ErrInvalidEnergy))
				_, err = eng.ComputeDEDX(-5)
				Expect(err).To(MatchError(stopping.ErrInvalidEnergy))
			})
		})
	}

	Describe("cross-model spread", func() {
		var icru73, icru90 *stopping.Engine

		BeforeEach(func() {
			var err error
			icru73, err = stopping.NewWithModel(stopping.Proton, stopping.Water, "FTFP_BERT")
			Expect(err).NotTo(HaveOccurred())
			icru90, err = stopping.NewWithModel(stopping.Proton, stopping.Water, "EM_option4")
			Expect(err).NotTo(HaveOccurred())
		})

		spread := func(e float64) float64 {
			a, err := icru73.ComputeDEDX(e)
			Expect(err).NotTo(HaveOccurred())
			b, err := icru90.ComputeDEDX(e)
			Expect(err).NotTo(HaveOccurred())
			return math.Abs(a-b) / a
		}

		It("stays within 5% over the reference grid", func() {
			for _, e := range energies {
				Expect(spread(e)).To(BeNumerically("<=", 0.05), "at %.2f MeV", e)
			}
		})

		It("shrinks above 10 MeV", func() {
			Expect(spread(10)).To(BeNumerically(">", spread(50)))
			Expect(spread(50)).To(BeNumerically(">", spread(90)))
			Expect(spread(100)).To(BeNumerically("~", 0, 1e-12))
			Expect(spread(249)).To(BeNumerically("~", 0, 1e-12))
		})
	})

	Describe("grid configuration", func() {
		It("rejects an end at or below the start", func() {
			_, err := stopping.Grid{Start: 10, End: 10, Step: 1}.Generate()
			Expect(err).To(MatchError(stopping.ErrConfiguration))
			_, err = stopping.Grid{Start: 10, End: 1, Step: 1}.Generate()
			Expect(err).To(MatchError(stopping.ErrConfiguration))
		})
	})
})
