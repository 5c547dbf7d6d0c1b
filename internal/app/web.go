// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/relabs-tech/signalk_imu/internal/config"
)

// webServer serves the latest values over REST and streams raw deltas to
// websocket clients.
type webServer struct {
	latest   *latestValues
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan []byte
}

func newWebServer() *webServer {
	return &webServer{
		latest: newLatestValues(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// handleDelta merges a delta payload and fans it out to websocket clients.
func (s *webServer) handleDelta(payload []byte) {
	if _, err := s.latest.ingest(payload); err != nil {
		log.Printf("web: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn, ch := range s.clients {
		select {
		case ch <- payload:
		default:
			log.Printf("web: dropping delta for slow client %s", conn.RemoteAddr())
		}
	}
}

func (s *webServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/delta", s.apiDelta)
	mux.HandleFunc("/ws", s.ws)
	mux.Handle("/", http.FileServer(http.Dir("web")))
	return mux
}

// apiDelta returns the latest value per path.
func (s *webServer) apiDelta(w http.ResponseWriter, r *http.Request) {
	values, ts, ok := s.latest.snapshot()
	if !ok {
		http.Error(w, "no data yet", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	resp := struct {
		Timestamp string                 `json:"timestamp"`
		Values    map[string]interface{} `json:"values"`
	}{ts, values}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("web: json encode error: %v", err)
	}
}

// ws upgrades the connection and writes every delta until the client goes
// away.
func (s *webServer) ws(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("web: websocket upgrade error: %v", err)
		return
	}

	ch := make(chan []byte, 16)
	s.mu.Lock()
	s.clients[conn] = ch
	s.mu.Unlock()
	log.Printf("web: websocket client %s connected", conn.RemoteAddr())

	// The read side only detects the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		conn.Close()
		log.Printf("web: websocket client %s disconnected", conn.RemoteAddr())
	}()

	for {
		select {
		case <-done:
			return
		case payload := <-ch:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		}
	}
}

// RunWeb subscribes to the delta topic and serves the web UI until ctx is
// done.
func RunWeb(ctx context.Context) error {
	cfg := config.Get()
	s := newWebServer()

	// 1) Connect to MQTT broker
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDWeb)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", token.Error())
	}
	defer client.Disconnect(250)
	log.Printf("web: connected to MQTT broker at %s", cfg.MQTTBroker)

	// 2) Subscribe to deltas
	token := client.Subscribe(cfg.TopicDelta, 0, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleDelta(msg.Payload())
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("web: subscribed to MQTT topic %s", cfg.TopicDelta)

	// 3) HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.WebServerPort),
		Handler: s.routes(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("web server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("web server: %w", err)
	}
	return nil
}
