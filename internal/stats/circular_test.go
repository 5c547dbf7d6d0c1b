package stats

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func deg(d float64) float64 { return d * math.Pi / 180 }

var _ = Describe("CircularStats", func() {
	It("should average across the 0/360 seam", func() {
		s := NewCircularStats(2, "yaw")
		s.Set(deg(359))
		s.Set(deg(1))

		Expect(s.Mean()).To(BeNumerically("~", 0, 1e-9))
		Expect(s.Last()).To(Equal(deg(1)))
	})

	It("should return zero when empty", func() {
		s := NewCircularStats(5, "yaw")
		Expect(s.Mean()).To(BeZero())
		Expect(s.Stdev()).To(BeZero())
		Expect(s.Len()).To(Equal(0))
	})

	It("should return the angle of a single sample", func() {
		s := NewCircularStats(5, "yaw")
		s.Set(deg(120))
		Expect(s.Mean()).To(BeNumerically("~", deg(120), 1e-9))

		s = NewCircularStats(5, "yaw")
		s.Set(deg(270))
		Expect(s.Mean()).To(BeNumerically("~", deg(-90), 1e-9))
	})

	It("should evict old angles", func() {
		s := NewCircularStats(2, "yaw")
		s.Set(deg(180))
		s.Set(deg(10))
		s.Set(deg(20))
		Expect(s.Len()).To(Equal(2))
		Expect(s.Mean()).To(BeNumerically("~", deg(15), 1e-9))
	})

	It("should report no dispersion for identical angles", func() {
		s := NewCircularStats(4, "yaw")
		for i := 0; i < 6; i++ {
			s.Set(deg(42))
		}
		Expect(s.Stdev()).To(BeNumerically("~", 0, 1e-12))
	})

	It("should combine the component variances", func() {
		s := NewCircularStats(2, "yaw")
		s.Set(0)
		s.Set(math.Pi)
		// cos: {1,-1} var 1; sin: {0,~0} var ~0
		Expect(s.Stdev()).To(BeNumerically("~", 1, 1e-9))
	})

	It("should name the inner channels after the label", func() {
		s := NewCircularStats(3, "pose.yaw")
		Expect(s.Label()).To(Equal("pose.yaw"))
		Expect(s.cos.Label()).To(Equal("pose.yaw.cos"))
		Expect(s.sin.Label()).To(Equal("pose.yaw.sin"))
	})
})

var _ = Describe("HeadingFromYaw", func() {
	single := func(angle float64) *CircularStats {
		s := NewCircularStats(30, "yaw")
		s.Set(angle)
		return s
	}

	It("should add 1.5π when the last yaw is below π/2", func() {
		Expect(HeadingFromYaw(single(0.2), 0)).To(BeNumerically("~", 0.2+1.5*math.Pi, 1e-9))
	})

	It("should subtract π/2 otherwise", func() {
		Expect(HeadingFromYaw(single(math.Pi), 0)).To(BeNumerically("~", math.Pi/2, 1e-9))
	})

	It("should wrap negative results", func() {
		// mean is -π/2, minus π/2 gives -π
		Expect(HeadingFromYaw(single(1.5*math.Pi), 0)).To(BeNumerically("~", math.Pi, 1e-9))
	})

	It("should wrap results above 2π", func() {
		h := HeadingFromYaw(single(1.0), -1.0)
		Expect(h).To(BeNumerically("~", 2+1.5*math.Pi-2*math.Pi, 1e-9))
	})

	It("should apply the deviation", func() {
		base := HeadingFromYaw(single(math.Pi), 0)
		Expect(HeadingFromYaw(single(math.Pi), deg(5))).To(BeNumerically("~", base-deg(5), 1e-9))
	})
})
