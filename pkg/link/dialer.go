/*
 * Copyright 2025 Skytether Systems.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package link dials outbound command links and tracks their descriptors.
package link

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/skytether/groundlink/pkg/logger"
	"github.com/skytether/groundlink/pkg/models"
)

var (
	ErrUnknownScheme = errors.New("unknown device scheme")
	ErrInvalidDevice = errors.New("invalid device string")
)

const defaultDialTimeout = 10 * time.Second

// identFrame is written once on every new link so the remote end knows which
// system and component the traffic originates from.
type identFrame struct {
	Type        string `json:"type"`
	SystemID    int    `json:"system_id"`
	ComponentID int    `json:"component_id"`
}

// NetDialer establishes tcp, udp, udpout, ws and wss command links.
type NetDialer struct {
	Timeout time.Duration
	logger  logger.Logger
}

// NewNetDialer creates a NetDialer with the given dial timeout. A zero
// timeout falls back to the default.
func NewNetDialer(timeout time.Duration, log logger.Logger) *NetDialer {
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &NetDialer{Timeout: timeout, logger: log}
}

// Dial implements Dialer. Device strings take the form "tcp:host:port",
// "udp:host:port", "udpout:host:port" or a "ws://" / "wss://" URL.
func (d *NetDialer) Dial(ctx context.Context, device string, identity models.SourceIdentity) (Conn, error) {
	scheme, target, err := ParseDevice(device)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, d.Timeout)
	defer cancel()

	var conn Conn

	switch scheme {
	case "tcp", "udp", "udpout":
		conn, err = d.dialNet(ctx, scheme, target)
	case "ws", "wss":
		conn, err = d.dialWebsocket(ctx, device)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownScheme, scheme)
	}

	if err != nil {
		return nil, err
	}

	if err := writeIdent(conn, identity); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to identify on %s: %w", device, err)
	}

	d.logger.Debug().
		Str("device", device).
		Str("address", conn.Address()).
		Int("fd", conn.Descriptor()).
		Msg("Established command link")

	return conn, nil
}

func (d *NetDialer) dialNet(ctx context.Context, scheme, target string) (Conn, error) {
	network := "tcp"
	if scheme == "udp" || scheme == "udpout" {
		network = "udp"
	}

	var dialer net.Dialer

	c, err := dialer.DialContext(ctx, network, target)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s %s: %w", network, target, err)
	}

	return &netConn{
		address: network + ":" + c.RemoteAddr().String(),
		fd:      rawDescriptor(c),
		conn:    c,
	}, nil
}

func (d *NetDialer) dialWebsocket(ctx context.Context, url string) (Conn, error) {
	ws, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to dial websocket %s: %w", url, err)
	}

	return &wsConn{address: url, conn: ws}, nil
}

// ParseDevice splits a device string into its scheme and dial target.
func ParseDevice(device string) (scheme, target string, err error) {
	if strings.HasPrefix(device, "ws://") || strings.HasPrefix(device, "wss://") {
		scheme = strings.SplitN(device, ":", 2)[0]
		return scheme, device, nil
	}

	parts := strings.SplitN(device, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDevice, device)
	}

	switch parts[0] {
	case "tcp", "udp", "udpout":
		return parts[0], parts[1], nil
	default:
		return "", "", fmt.Errorf("%w: %s", ErrUnknownScheme, parts[0])
	}
}

func writeIdent(conn Conn, identity models.SourceIdentity) error {
	frame := identFrame{
		Type:        "HELLO",
		SystemID:    identity.SystemID,
		ComponentID: identity.ComponentID,
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	data = append(data, '\n')

	w, ok := conn.(frameWriter)
	if !ok {
		return nil
	}

	return w.writeFrame(data)
}

type frameWriter interface {
	writeFrame(data []byte) error
}

// rawDescriptor extracts the file descriptor backing a net.Conn, or -1
// when the connection does not expose one.
func rawDescriptor(c net.Conn) int {
	sc, ok := c.(syscall.Conn)
	if !ok {
		return -1
	}

	raw, err := sc.SyscallConn()
	if err != nil {
		return -1
	}

	fd := -1
	_ = raw.Control(func(h uintptr) { fd = int(h) })

	return fd
}

// netConn is a Conn over a tcp or udp socket.
type netConn struct {
	address string
	fd      int
	conn    net.Conn
}

func (c *netConn) Address() string { return c.address }
func (c *netConn) Descriptor() int { return c.fd }
func (c *netConn) Close() error    { return c.conn.Close() }
func (c *netConn) writeFrame(data []byte) error {
	_, err := c.conn.Write(data)
	return err
}

// wsConn is a Conn over a websocket. Websocket links have no raw
// descriptor to monitor.
type wsConn struct {
	address string
	conn    *websocket.Conn
}

func (c *wsConn) Address() string { return c.address }
func (*wsConn) Descriptor() int   { return -1 }
func (c *wsConn) Close() error    { return c.conn.Close() }
func (c *wsConn) writeFrame(data []byte) error {
	return c.conn.WriteMessage(websocket.TextMessage, data)
}
