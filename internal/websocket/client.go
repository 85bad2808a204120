// MovieRec - Content-Based Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package websocket

import (
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/tomtom215/movierec/internal/logging"
	"github.com/tomtom215/movierec/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// controlReadLimit bounds inbound frames. Subscribers have nothing to
	// say, so anything above a close payload is a misbehaving peer.
	controlReadLimit = 512

	sendBuffer = 256
)

// clientIDCounter hands out increasing client IDs so broadcasts iterate in a
// stable order.
var clientIDCounter atomic.Uint64

// Client is one subscriber to the training stream. The stream is push-only:
// the server writes training_progress and training_completed frames, and
// anything the peer sends other than control frames is discarded.
type Client struct {
	id     uint64
	hub    *Hub
	conn   *websocket.Conn
	send   chan Message
	gone   chan struct{} // closed once the peer has disconnected
	logger zerolog.Logger
}

// NewClient creates a subscriber with the next ID. It does not register with
// the hub.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	id := clientIDCounter.Add(1)
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan Message, sendBuffer),
		gone:   make(chan struct{}),
		logger: logging.WithComponent("websocket").With().Uint64("client_id", id).Logger(),
	}
}

// ID returns the client's identifier.
func (c *Client) ID() uint64 {
	return c.id
}

// Start runs the control reader and the frame writer until the peer leaves
// or the hub drops the client.
func (c *Client) Start() {
	go c.writeFrames()
	go c.readControl()
}

// readControl keeps the read side of the connection moving so gorilla can
// process pong and close frames. Data frames are skipped unread. When the
// connection ends the client is unregistered and the writer is released.
func (c *Client) readControl() {
	defer func() {
		close(c.gone)
		c.hub.Unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(controlReadLimit)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	discarded := 0
	for {
		// NextReader skips whatever remains of the previous frame.
		if _, _, err := c.conn.NextReader(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.logger.Debug().Err(err).Msg("training stream subscriber left")
			}
			if discarded > 0 {
				c.logger.Debug().Int("frames", discarded).Msg("ignored frames from subscriber")
			}
			return
		}
		discarded++
	}
}

// writeFrames writes each hub message as one JSON text frame and pings the
// peer every pingPeriod. It returns when the hub closes send, the peer is
// gone, or a write fails.
func (c *Client) writeFrames() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.writeClose()
				return
			}
			if err := c.writeMessage(msg); err != nil {
				c.logger.Debug().Err(err).Str("type", msg.Type).Msg("training stream write failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-c.gone:
			return
		}
	}
}

func (c *Client) writeMessage(msg Message) error {
	payload, err := MarshalMessage(msg)
	if err != nil {
		// A payload that cannot be encoded is skipped; the stream goes on.
		c.logger.Error().Err(err).Str("type", msg.Type).Msg("cannot encode training event")
		return nil
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return err
	}
	metrics.WSMessagesSent.WithLabelValues(msg.Type).Inc()
	return nil
}

// writeClose tells the peer the stream has ended, normally because the hub
// is shutting down.
func (c *Client) writeClose() {
	frame := websocket.FormatCloseMessage(websocket.CloseGoingAway, "training stream closed")
	_ = c.conn.WriteControl(websocket.CloseMessage, frame, time.Now().Add(writeWait))
}
