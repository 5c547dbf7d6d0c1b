package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/relabs-tech/signalk_imu/internal/signalk"
)

func motionPayload(heading float64) []byte {
	d := signalk.NewDelta("vessels.self", signalk.Source{Src: "imu"},
		time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		signalk.Value{Path: signalk.PathHeadingMagnetic, Value: heading},
		signalk.Value{Path: signalk.PathAttitude, Value: signalk.Attitude{Roll: 0.1, Pitch: -0.2, Yaw: 1.5}},
		signalk.Value{Path: signalk.PathRateOfTurn, Value: 0.02},
	)
	payload, err := json.Marshal(d)
	if err != nil {
		panic(err)
	}
	return payload
}

var _ = Describe("webServer", func() {
	var s *webServer

	BeforeEach(func() {
		s = newWebServer()
	})

	It("should answer 503 until a delta arrived", func() {
		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/delta", nil))
		Expect(rec.Code).To(Equal(http.StatusServiceUnavailable))
	})

	It("should serve the latest value per path", func() {
		s.handleDelta(motionPayload(1.0))
		s.handleDelta(motionPayload(2.0))

		rec := httptest.NewRecorder()
		s.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/delta", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))

		var body struct {
			Timestamp string                 `json:"timestamp"`
			Values    map[string]interface{} `json:"values"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		Expect(body.Timestamp).To(Equal("2026-01-02T03:04:05.000Z"))
		Expect(body.Values[signalk.PathHeadingMagnetic]).To(Equal(2.0))
		Expect(body.Values[signalk.PathAttitude]).To(HaveKeyWithValue("pitch", -0.2))
	})

	It("should ignore payloads that are not deltas", func() {
		s.handleDelta([]byte("not json"))
		_, _, ok := s.latest.snapshot()
		Expect(ok).To(BeFalse())
	})

	It("should stream deltas to websocket clients", func() {
		srv := httptest.NewServer(s.routes())
		defer srv.Close()

		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
		conn, _, err := websocket.DefaultDialer.Dial(url, nil)
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		Eventually(func() int {
			s.mu.Lock()
			defer s.mu.Unlock()
			return len(s.clients)
		}).Should(Equal(1))

		payload := motionPayload(0.5)
		s.handleDelta(payload)

		Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
		kind, msg, err := conn.ReadMessage()
		Expect(err).NotTo(HaveOccurred())
		Expect(kind).To(Equal(websocket.TextMessage))
		Expect(msg).To(MatchJSON(payload))

		conn.Close()
		Eventually(func() int {
			s.mu.Lock()
			defer s.mu.Unlock()
			return len(s.clients)
		}).Should(BeZero())
	})
})
