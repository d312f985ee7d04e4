package cli

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/alexanderramin/braindump/internal/config"
	"github.com/alexanderramin/braindump/internal/httpapi"
	"github.com/alexanderramin/braindump/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, app *App, watch bool) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, app, ln, watch) }()
	t.Cleanup(cancel)
	return "http://" + ln.Addr().String(), cancel, done
}

func TestServe_ServesAPIAndShutsDown(t *testing.T) {
	app := testApp(t)
	mustExecute(t, app, sampleDump, "plan", "new")
	base, cancel, done := startServer(t, app, false)

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	tok, err := httpapi.GenerateToken([]byte(app.Env.JWTSecret), DefaultOwner, time.Hour, time.Now())
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodGet, base+"/v1/plans/latest", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		DoFirst []struct {
			DisplayTitle string `json:"display_title"`
		} `json:"do_first"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.DoFirst, 1)
	assert.Equal(t, "Pay rent tomorrow", body.DoFirst[0].DisplayTitle)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_ReloadsTuningFile(t *testing.T) {
	app := testApp(t)
	_, _, _ = startServer(t, app, true)

	strict := app.Base
	strict.EnumPolicy = scheduler.EnumStrict
	file := config.FileFromOptions(strict, 30, 5)

	// The watcher starts asynchronously, so keep saving until it sees a write.
	assert.Eventually(t, func() bool {
		if app.Store.Options().EnumPolicy == scheduler.EnumStrict {
			return true
		}
		_ = config.Save(app.Env.ConfigPath, file)
		return false
	}, 5*time.Second, 400*time.Millisecond)
}

func TestServe_RequiresSecret(t *testing.T) {
	app := testApp(t)
	app.Env.JWTSecret = ""

	_, err := executeCmd(t, app, "", "serve", "--addr", "127.0.0.1:0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BRAINDUMP_JWT_SECRET")
	_, statErr := os.Stat(app.Env.ConfigPath)
	assert.True(t, os.IsNotExist(statErr))
}
