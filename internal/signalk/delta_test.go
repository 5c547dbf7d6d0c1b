package signalk

import (
	"encoding/json"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relabs-tech/signalk_imu/internal/imu"
	"github.com/relabs-tech/signalk_imu/internal/orientation"
)

var _ = Describe("Delta", func() {
	ts := time.Date(2017, 6, 1, 12, 30, 15, 123456789, time.FixedZone("CEST", 2*3600))
	src := Source{Label: "signalk-imu", Src: "sim"}

	It("should carry context, source and a UTC millisecond timestamp", func() {
		d := NewDelta(VesselContext("self"), src, ts)

		Expect(d.Context).To(Equal("vessels.self"))
		Expect(d.Updates).To(HaveLen(1))
		Expect(d.Updates[0].Source).To(Equal(src))
		Expect(d.Updates[0].Timestamp).To(Equal("2017-06-01T10:30:15.123Z"))
	})

	It("should publish motion paths in radians", func() {
		snap := orientation.Snapshot{
			Attitude: orientation.Pose{Roll: 0.1, Pitch: -0.2, Yaw: 1.5},
			Rate:     imu.Vec3{X: 0.01, Y: 0.02, Z: 0.03},
			Heading:  3.0,
		}
		vals := NewDelta("vessels.self", src, ts, MotionValues(snap)...).Values()

		Expect(vals).To(HaveKeyWithValue(PathHeadingMagnetic, 3.0))
		Expect(vals).To(HaveKeyWithValue(PathAttitude, Attitude{Roll: 0.1, Pitch: -0.2, Yaw: 1.5}))
		Expect(vals).To(HaveKeyWithValue(PathRateOfTurn, 0.03))
		Expect(vals).To(HaveKeyWithValue(PathGyroRoll, 0.01))
		Expect(vals).To(HaveKeyWithValue(PathGyroPitch, 0.02))
		Expect(vals).To(HaveKeyWithValue(PathGyroYaw, 0.03))
	})

	It("should publish environment paths in SI units", func() {
		vals := NewDelta("vessels.self", src, ts,
			EnvironmentValues(orientation.Environment{Temperature: 20, Pressure: 1013})...).Values()

		Expect(vals[PathTemperature]).To(BeNumerically("~", 293.15, 1e-9))
		Expect(vals[PathPressure]).To(BeNumerically("~", 101300, 1e-9))
	})

	It("should encode the Signal K wire shape", func() {
		d := NewDelta("vessels.self", Source{Src: "sim"}, ts, Value{Path: PathRateOfTurn, Value: 0.5})
		b, err := json.Marshal(d)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(b)).To(MatchJSON(`{
			"context": "vessels.self",
			"updates": [{
				"source": {"src": "sim"},
				"timestamp": "2017-06-01T10:30:15.123Z",
				"values": [{"path": "navigation.rateOfTurn", "value": 0.5}]
			}]
		}`))
	})
})
