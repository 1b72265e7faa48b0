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

package link

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skytether/groundlink/pkg/logger"
	"github.com/skytether/groundlink/pkg/models"
)

var testIdentity = models.SourceIdentity{SystemID: 255, ComponentID: 190}

func TestParseDevice(t *testing.T) {
	tests := []struct {
		device     string
		wantScheme string
		wantTarget string
		wantErr    error
	}{
		{"tcp:10.0.0.1:5760", "tcp", "10.0.0.1:5760", nil},
		{"udp:10.0.0.1:14550", "udp", "10.0.0.1:14550", nil},
		{"udpout:10.0.0.1:14550", "udpout", "10.0.0.1:14550", nil},
		{"ws://gcs.local/link", "ws", "ws://gcs.local/link", nil},
		{"wss://gcs.local/link", "wss", "wss://gcs.local/link", nil},
		{"serial:/dev/ttyUSB0", "", "", ErrUnknownScheme},
		{"10.0.0.1:14550", "", "", ErrUnknownScheme},
		{"tcp:", "", "", ErrInvalidDevice},
		{"", "", "", ErrInvalidDevice},
	}

	for _, tt := range tests {
		t.Run(tt.device, func(t *testing.T) {
			scheme, target, err := ParseDevice(tt.device)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantScheme, scheme)
			assert.Equal(t, tt.wantTarget, target)
		})
	}
}

func TestNetDialerTCP(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer listener.Close()

	idents := make(chan identFrame, 1)

	go func() {
		c, acceptErr := listener.Accept()
		if acceptErr != nil {
			return
		}

		defer c.Close()

		line, readErr := bufio.NewReader(c).ReadBytes('\n')
		if readErr != nil {
			return
		}

		var ident identFrame
		if json.Unmarshal(line, &ident) == nil {
			idents <- ident
		}
	}()

	dialer := NewNetDialer(time.Second, logger.NewTestLogger())

	conn, err := dialer.Dial(context.Background(), "tcp:"+listener.Addr().String(), testIdentity)
	require.NoError(t, err)

	defer conn.Close()

	assert.True(t, strings.HasPrefix(conn.Address(), "tcp:"), "address %q", conn.Address())
	assert.GreaterOrEqual(t, conn.Descriptor(), 0)

	select {
	case ident := <-idents:
		assert.Equal(t, "HELLO", ident.Type)
		assert.Equal(t, 255, ident.SystemID)
		assert.Equal(t, 190, ident.ComponentID)
	case <-time.After(2 * time.Second):
		t.Fatal("identification frame never arrived")
	}
}

func TestNetDialerUDP(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	defer pc.Close()

	dialer := NewNetDialer(time.Second, logger.NewTestLogger())

	conn, err := dialer.Dial(context.Background(), "udp:"+pc.LocalAddr().String(), testIdentity)
	require.NoError(t, err)

	defer conn.Close()

	assert.True(t, strings.HasPrefix(conn.Address(), "udp:"))
	assert.GreaterOrEqual(t, conn.Descriptor(), 0)
}

func TestNetDialerTCPRefused(t *testing.T) {
	// Grab a port that nothing listens on.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	dialer := NewNetDialer(500*time.Millisecond, logger.NewTestLogger())

	_, err = dialer.Dial(context.Background(), "tcp:"+addr, testIdentity)
	assert.Error(t, err)
}

func TestNetDialerUnknownScheme(t *testing.T) {
	dialer := NewNetDialer(time.Second, logger.NewTestLogger())

	_, err := dialer.Dial(context.Background(), "serial:/dev/ttyUSB0", testIdentity)
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestNetDialerWebsocket(t *testing.T) {
	upgrader := websocket.Upgrader{}
	idents := make(chan identFrame, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, upgradeErr := upgrader.Upgrade(w, r, nil)
		if upgradeErr != nil {
			return
		}

		defer ws.Close()

		_, data, readErr := ws.ReadMessage()
		if readErr != nil {
			return
		}

		var ident identFrame
		if json.Unmarshal(data, &ident) == nil {
			idents <- ident
		}
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	dialer := NewNetDialer(time.Second, logger.NewTestLogger())

	conn, err := dialer.Dial(context.Background(), url, testIdentity)
	require.NoError(t, err)

	defer conn.Close()

	assert.Equal(t, url, conn.Address())
	assert.Equal(t, -1, conn.Descriptor())

	select {
	case ident := <-idents:
		assert.Equal(t, "HELLO", ident.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("identification frame never arrived")
	}
}
