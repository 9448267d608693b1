package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/heatsim/internal/config"
)

func dial(t *testing.T) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(NewServer("", websocket.Upgrader{}, 5).Handler())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	return conn
}

func read(t *testing.T, conn *websocket.Conn) Response {
	t.Helper()
	var resp Response
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestStreamRun(t *testing.T) {
	conn := dial(t)

	cfg := config.DefaultConfig()
	cfg.NodeCount = 20
	cfg.StepCount = 50
	cfg.MaxTime = 0.04
	require.NoError(t, conn.WriteJSON(Request{Type: TypeRun, Config: cfg}))

	started := read(t, conn)
	require.Equal(t, TypeStarted, started.Type)
	assert.Len(t, started.Radii, 21)
	assert.Equal(t, 50, started.Steps)

	var rows []Response
	for {
		resp := read(t, conn)
		if resp.Type != TypeRow {
			require.Equal(t, TypeDone, resp.Type, resp.Error)
			assert.Equal(t, 50, resp.Steps)
			assert.Contains(t, resp.Metrics, "mean_temperature")
			break
		}
		rows = append(rows, resp)
	}

	require.Len(t, rows, 11)
	assert.Equal(t, 0, rows[0].Step)
	assert.Equal(t, 50, rows[10].Step)
	for _, r := range rows {
		assert.Len(t, r.Temperatures, 21)
	}
	last := rows[10].Temperatures
	assert.Less(t, last[0], last[20])
}

func TestRunRejectsBadConfig(t *testing.T) {
	conn := dial(t)

	cfg := config.DefaultConfig()
	cfg.Density = -1
	require.NoError(t, conn.WriteJSON(Request{Type: TypeRun, Config: cfg}))

	resp := read(t, conn)
	assert.Equal(t, TypeError, resp.Type)
	assert.Contains(t, resp.Error, "density")
}

func TestUnknownAndIdleStop(t *testing.T) {
	conn := dial(t)

	require.NoError(t, conn.WriteJSON(Request{Type: "explode"}))
	resp := read(t, conn)
	assert.Equal(t, TypeError, resp.Type)

	require.NoError(t, conn.WriteJSON(Request{Type: TypeStop}))
	resp = read(t, conn)
	assert.Equal(t, TypeStopped, resp.Type)
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(NewServer("", websocket.Upgrader{}, 0).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// trackingCtx counts child contexts registered on it and released again.
type trackingCtx struct {
	context.Context
	done               chan struct{}
	registered, closed atomic.Int32
}

func (c *trackingCtx) Done() <-chan struct{} { return c.done }

func (c *trackingCtx) AfterFunc(f func()) func() bool {
	c.registered.Add(1)
	return func() bool {
		c.closed.Add(1)
		return true
	}
}

func TestFinishedRunReleasesContext(t *testing.T) {
	hubs := make(chan *Hub, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		hubs <- NewHub(conn, 10, log.NewEntry(log.StandardLogger()))
		<-release
	}))
	defer srv.Close()
	defer close(release)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(10*time.Second)))
	hub := <-hubs

	parent := &trackingCtx{Context: context.Background(), done: make(chan struct{})}
	cfg := config.DefaultConfig()
	cfg.NodeCount = 10
	cfg.StepCount = 20
	for run := 1; run <= 2; run++ {
		require.NoError(t, hub.start(parent, Request{Type: TypeRun, Config: cfg}))
		for {
			resp := read(t, conn)
			require.NotEqual(t, TypeError, resp.Type, resp.Error)
			if resp.Type == TypeDone {
				break
			}
		}
		require.Eventually(t, func() bool {
			return parent.closed.Load() == int32(run)
		}, 5*time.Second, 10*time.Millisecond)
	}
	assert.Equal(t, parent.registered.Load(), parent.closed.Load())
}
