package app

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/relabs-tech/signalk_imu/internal/imu"
	"github.com/relabs-tech/signalk_imu/internal/metrics"
	"github.com/relabs-tech/signalk_imu/internal/nmea0183"
	"github.com/relabs-tech/signalk_imu/internal/orientation"
	"github.com/relabs-tech/signalk_imu/internal/signalk"
	"github.com/relabs-tech/signalk_imu/internal/sim"
)

type capturePublisher struct {
	payloads [][]byte
	err      error
}

func (c *capturePublisher) Publish(payload []byte) error {
	if c.err != nil {
		return c.err
	}
	c.payloads = append(c.payloads, payload)
	return nil
}

func (c *capturePublisher) delta(i int) signalk.Delta {
	var d signalk.Delta
	Expect(json.Unmarshal(c.payloads[i], &d)).To(Succeed())
	return d
}

type fixedSource struct {
	reading imu.Reading
	err     error
}

func (f *fixedSource) Read() (imu.Reading, error) { return f.reading, f.err }

// poseOnlySource has no temperature or pressure sensor.
type poseOnlySource struct {
	fixedSource
}

func (poseOnlySource) HasEnvironment() bool { return false }

var testOptions = producerOptions{
	Windows:     orientation.MotionWindows{Pose: 5, Rate: 5, Heading: 30},
	EnvWindow:   5,
	SelfID:      "self",
	SourceLabel: "signalk-imu",
}

var _ = Describe("producer", func() {
	var (
		pub *capturePublisher
		m   *metrics.Producer
		ts  = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	)

	newTestProducer := func(src imu.Source) *producer {
		p := newProducer(src, pub, m, testOptions)
		p.now = func() time.Time { return ts }
		return p
	}

	BeforeEach(func() {
		pub = &capturePublisher{}
		m = metrics.NewProducer(prometheus.NewRegistry())
	})

	Context("with the simulated IMU", func() {
		var p *producer

		BeforeEach(func() {
			p = newTestProducer(sim.NewIMU(sim.NewUniform(7)))
		})

		It("should hold motion back until the IMU is calibrated", func() {
			for i := 0; i < 15; i++ {
				p.motionTick()
			}
			Expect(pub.payloads).To(BeEmpty())
			Expect(testutil.ToFloat64(m.GateSkips)).To(Equal(15.0))

			p.motionTick()
			Expect(pub.payloads).To(HaveLen(1))
			Expect(testutil.ToFloat64(m.Published.WithLabelValues(channelMotion))).To(Equal(1.0))
			Expect(testutil.ToFloat64(m.Ticks.WithLabelValues(channelMotion))).To(Equal(16.0))
		})

		It("should publish a motion delta with every motion path", func() {
			for i := 0; i < 16; i++ {
				p.motionTick()
			}
			d := pub.delta(0)
			Expect(d.Context).To(Equal("vessels.self"))
			Expect(d.Updates).To(HaveLen(1))
			Expect(d.Updates[0].Source).To(Equal(signalk.Source{Label: "signalk-imu", Src: "imu"}))
			Expect(d.Updates[0].Timestamp).To(Equal("2026-01-02T03:04:05.000Z"))

			values := d.Values()
			Expect(values).To(HaveKey(signalk.PathHeadingMagnetic))
			Expect(values).To(HaveKey(signalk.PathAttitude))
			Expect(values).To(HaveKey(signalk.PathRateOfTurn))
			Expect(values).To(HaveKey(signalk.PathGyroRoll))
			Expect(values).To(HaveKey(signalk.PathGyroPitch))
			Expect(values).To(HaveKey(signalk.PathGyroYaw))

			heading := values[signalk.PathHeadingMagnetic].(float64)
			Expect(heading).To(BeNumerically(">=", 0))
			Expect(heading).To(BeNumerically("<", 2*3.141592653589793))
			Expect(testutil.ToFloat64(m.Heading)).To(Equal(heading))
		})

		It("should publish the environment in SI units without waiting for calibration", func() {
			p.environmentTick()

			Expect(pub.payloads).To(HaveLen(1))
			values := pub.delta(0).Values()
			Expect(values[signalk.PathTemperature]).To(BeNumerically(">=", 268.15))
			Expect(values[signalk.PathTemperature]).To(BeNumerically("<=", 313.15))
			Expect(values[signalk.PathPressure]).To(BeNumerically(">=", 95000))
			Expect(values[signalk.PathPressure]).To(BeNumerically("<=", 105000))
			Expect(testutil.ToFloat64(m.Pressure)).To(Equal(values[signalk.PathPressure]))
		})
	})

	It("should publish motion at once for sources without status", func() {
		p := newTestProducer(&fixedSource{reading: imu.Reading{
			Pose: imu.Vec3{X: 0.1, Y: -0.1, Z: 3.0},
			Gyro: imu.Vec3{Z: 0.01},
		}})
		p.motionTick()

		Expect(pub.payloads).To(HaveLen(1))
		Expect(pub.delta(0).Values()[signalk.PathRateOfTurn]).To(BeNumerically("~", 0.01, 1e-12))
	})

	It("should not publish an environment for a pose-only source", func() {
		p := newTestProducer(&poseOnlySource{fixedSource{reading: imu.Reading{Pose: imu.Vec3{Z: 1.0}}}})
		p.environmentTick()
		p.environmentTick()

		Expect(pub.payloads).To(BeEmpty())
		Expect(p.envDeltas).To(BeZero())
		Expect(testutil.ToFloat64(m.Ticks.WithLabelValues(channelEnvironment))).To(Equal(0.0))
		Expect(testutil.ToFloat64(m.Temperature)).To(Equal(0.0))
		Expect(testutil.ToFloat64(m.Pressure)).To(Equal(0.0))

		p.motionTick()
		Expect(pub.payloads).To(HaveLen(1))
		Expect(pub.delta(0).Values()).NotTo(HaveKey(signalk.PathTemperature))
	})

	It("should write HDG and ROT when NMEA output is on", func() {
		var buf bytes.Buffer
		p := newTestProducer(&fixedSource{reading: imu.Reading{Pose: imu.Vec3{Z: 3.0}, Gyro: imu.Vec3{Z: 0.01}}})
		p.nmea = nmea0183.NewWriter(&buf)
		p.motionTick()

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\r\n"), "\r\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(HavePrefix("$HCHDG,"))
		Expect(lines[1]).To(HavePrefix("$TIROT,"))
	})

	It("should count read errors and skip the tick", func() {
		p := newTestProducer(&fixedSource{err: errors.New("bus timeout")})
		p.motionTick()
		p.environmentTick()

		Expect(pub.payloads).To(BeEmpty())
		Expect(testutil.ToFloat64(m.ReadErrors.WithLabelValues(channelMotion))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.ReadErrors.WithLabelValues(channelEnvironment))).To(Equal(1.0))
	})

	It("should count publish errors", func() {
		pub.err = errors.New("broker gone")
		p := newTestProducer(&fixedSource{})
		p.motionTick()

		Expect(testutil.ToFloat64(m.PublishErrors.WithLabelValues(channelMotion))).To(Equal(1.0))
		Expect(testutil.ToFloat64(m.Published.WithLabelValues(channelMotion))).To(Equal(0.0))
		Expect(p.motionDeltas).To(BeZero())
	})
})
