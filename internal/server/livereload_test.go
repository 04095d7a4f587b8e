package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, ctx context.Context, ts *httptest.Server, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	return websocket.Dial(ctx, wsURL, &websocket.DialOptions{HTTPHeader: header})
}

func TestLiveReloadBroadcast(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := dial(t, ctx, ts, ts.URL)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return f.server.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.server.Reload()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageReload, msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	f.server.ReportBuildError(assert.AnError)
	_, data, err = conn.Read(ctx)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MessageBuildError, msg.Type)
	assert.Equal(t, assert.AnError.Error(), msg.Content)
}

func TestLiveReloadRejectsForeignOrigin(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, origin := range []string{"", "https://evil.example", "file://local"} {
		_, resp, err := dial(t, ctx, ts, origin)
		require.Error(t, err, origin)
		if resp != nil {
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		}
	}

	conn, _, err := dial(t, ctx, ts, "https://kelas.example")
	require.NoError(t, err, "configured origin is accepted")
	conn.Close(websocket.StatusNormalClosure, "")
}

func TestHubDropsClientsOnClose(t *testing.T) {
	f := newFixture(t)
	ts := httptest.NewServer(f.router)
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := dial(t, ctx, ts, ts.URL)
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")
	require.Eventually(t, func() bool { return f.server.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	f.server.Hub().Close()
	assert.Equal(t, 0, f.server.Hub().Count())

	_, _, err = conn.Read(ctx)
	assert.Error(t, err)
}
