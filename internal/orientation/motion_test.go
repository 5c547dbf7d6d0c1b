package orientation

import (
	"math"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relabs-tech/signalk_imu/internal/imu"
	"github.com/relabs-tech/signalk_imu/internal/sim"
	"github.com/relabs-tech/signalk_imu/internal/stats"
)

var _ = Describe("Motion", func() {
	windows := MotionWindows{Pose: 5, Rate: 5, Heading: 30}

	It("should smooth pose and rates over their windows", func() {
		m := NewMotion(MotionWindows{Pose: 2, Rate: 2, Heading: 2}, 0)
		m.Update(imu.Reading{Pose: imu.Vec3{X: 0.1, Y: 0.2, Z: 0.1}, Gyro: imu.Vec3{X: 1, Y: 2, Z: 3}})
		m.Update(imu.Reading{Pose: imu.Vec3{X: 0.3, Y: 0.4, Z: 0.3}, Gyro: imu.Vec3{X: 3, Y: 4, Z: 5}})
		snap := m.Update(imu.Reading{Pose: imu.Vec3{X: 0.5, Y: 0.6, Z: 0.5}, Gyro: imu.Vec3{X: 5, Y: 6, Z: 7}})

		Expect(snap.Attitude.Roll).To(BeNumerically("~", 0.4, 1e-12))
		Expect(snap.Attitude.Pitch).To(BeNumerically("~", 0.5, 1e-12))
		Expect(snap.Attitude.Yaw).To(BeNumerically("~", 0.4, 1e-9))
		Expect(snap.Rate).To(Equal(imu.Vec3{X: 4, Y: 5, Z: 6}))
	})

	It("should average yaw across north", func() {
		m := NewMotion(windows, 0)
		m.Update(imu.Reading{Pose: imu.Vec3{Z: 2*math.Pi - 0.01}})
		snap := m.Update(imu.Reading{Pose: imu.Vec3{Z: 0.01}})
		Expect(snap.Attitude.Yaw).To(BeNumerically("~", 0, 1e-9))
	})

	It("should derive heading from yaw with the deviation", func() {
		dev := 0.05
		m := NewMotion(windows, dev)
		snap := m.Update(imu.Reading{Pose: imu.Vec3{Z: math.Pi}})

		yaw := stats.NewCircularStats(1, "yaw")
		yaw.Set(math.Pi)
		Expect(snap.Heading).To(BeNumerically("~", stats.HeadingFromYaw(yaw, dev), 1e-9))
		Expect(m.Deviation()).To(Equal(dev))
	})

	It("should keep the published heading in [0, 2π)", func() {
		m := NewMotion(windows, 0.1)
		src := sim.NewIMU(sim.NewUniform(11))
		for i := 0; i < 500; i++ {
			snap := m.Update(src.Sample())
			Expect(snap.Heading).To(BeNumerically(">=", 0))
			Expect(snap.Heading).To(BeNumerically("<", 2*math.Pi))
			Expect(math.IsNaN(snap.HeadingStdev)).To(BeFalse())
		}
		Expect(m.Heading.Len()).To(Equal(30))
		Expect(m.Pose.Roll.Len()).To(Equal(5))
	})
})

var _ = Describe("EnvStats", func() {
	It("should average temperature and pressure", func() {
		e := NewEnvStats(2)
		e.Set(imu.Reading{Temperature: 10, Pressure: 1000})
		e.Set(imu.Reading{Temperature: 20, Pressure: 1010})
		e.Set(imu.Reading{Temperature: 30, Pressure: 1020})
		Expect(e.Mean()).To(Equal(Environment{Temperature: 25, Pressure: 1015}))
	})
})

var _ = Describe("ComputePoseFromAccel", func() {
	It("should read level when gravity is on z", func() {
		p := ComputePoseFromAccel(0, 0, 1)
		Expect(p.Roll).To(BeNumerically("~", 0, 1e-12))
		Expect(p.Pitch).To(BeNumerically("~", 0, 1e-12))
	})

	It("should read a 90° roll when gravity is on y", func() {
		p := ComputePoseFromAccel(0, 1, 0)
		Expect(p.Roll).To(BeNumerically("~", math.Pi/2, 1e-12))
	})
})
