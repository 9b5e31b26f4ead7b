package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/rankine-core/internal/infrastructure/config"
	"github.com/nerrad567/rankine-core/internal/infrastructure/influxdb"
)

// fakeServer answers pings and records line-protocol bodies posted to the
// v2 write endpoint.
type fakeServer struct {
	*httptest.Server
	mu     sync.Mutex
	lines  []string
	writes chan struct{}
	status int
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{writes: make(chan struct{}, 16), status: http.StatusNoContent}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/ping":
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/api/v2/write" && r.Method == http.MethodPost:
			body, _ := io.ReadAll(r.Body) //nolint:errcheck // Test server
			f.mu.Lock()
			for _, line := range strings.Split(strings.TrimSpace(string(body)), "\n") {
				f.lines = append(f.lines, line)
			}
			status := f.status
			f.mu.Unlock()
			w.WriteHeader(status)
			f.writes <- struct{}{}
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeServer) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.lines...)
}

func (f *fakeServer) waitWrite(t *testing.T) {
	t.Helper()
	select {
	case <-f.writes:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for write")
	}
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "rankine-test-token",
		Org:           "rankine",
		Bucket:        "cycles",
		BatchSize:     100,
		FlushInterval: 1,
	}
}

// warnLogger forwards each warning to a channel.
type warnLogger struct {
	warns chan string
}

func (l *warnLogger) Warn(msg string, _ ...any) {
	select {
	case l.warns <- msg:
	default:
	}
}

func connect(t *testing.T, f *fakeServer) *influxdb.Client {
	t.Helper()
	client, err := influxdb.Connect(context.Background(), testConfig(f.URL), nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

func TestConnect(t *testing.T) {
	f := newFakeServer(t)
	client := connect(t, f)

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:8086")
	cfg.Enabled = false

	_, err := influxdb.Connect(context.Background(), cfg, nil)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	f := newFakeServer(t)
	url := f.URL
	f.Close()

	_, err := influxdb.Connect(context.Background(), testConfig(url), nil)
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestWriteCycleMetrics(t *testing.T) {
	f := newFakeServer(t)
	client := connect(t, f)

	ts := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	client.WriteCycleMetrics("run-1", 292.5, 0.327, 0.0103, ts)
	client.Close() //nolint:errcheck // Close flushes the batch
	f.waitWrite(t)

	lines := f.recorded()
	if len(lines) != 1 {
		t.Fatalf("lines = %v, want one", lines)
	}
	line := lines[0]
	for _, want := range []string{
		"rankine_cycle,run_id=run-1,source=rankine ",
		"net_work_kw=292.5",
		"efficiency=0.327",
		"back_work_ratio=0.0103",
		" 1792152000000000000",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestWriteDeviceEnergy(t *testing.T) {
	f := newFakeServer(t)
	client := connect(t, f)

	ts := time.Now()
	client.WriteDeviceEnergy("run-1", "pump", 3, ts)
	client.WriteDeviceEnergy("run-1", "turbine", 295.5, ts)
	client.Close() //nolint:errcheck // Close flushes the batch
	f.waitWrite(t)

	lines := f.recorded()
	if len(lines) != 2 {
		t.Fatalf("lines = %v, want two", lines)
	}
	if !strings.HasPrefix(lines[0], "rankine_device,device=pump,run_id=run-1,source=rankine rate_kw=3") {
		t.Errorf("line[0] = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "rankine_device,device=turbine,run_id=run-1,source=rankine rate_kw=295.5") {
		t.Errorf("line[1] = %q", lines[1])
	}
}

func TestRejectedBatchLogged(t *testing.T) {
	f := newFakeServer(t)
	f.status = http.StatusBadRequest
	logger := &warnLogger{warns: make(chan string, 4)}

	client, err := influxdb.Connect(context.Background(), testConfig(f.URL), logger)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close() //nolint:errcheck // Test cleanup

	client.WriteCycleMetrics("run-1", 1, 0.1, 0.01, time.Now())

	select {
	case msg := <-logger.warns:
		if !strings.Contains(msg, "write failed") {
			t.Errorf("warning = %q", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for write failure")
	}
	if client.Failures() < 1 {
		t.Errorf("Failures() = %d, want at least 1", client.Failures())
	}
}

func TestClose(t *testing.T) {
	f := newFakeServer(t)
	client, err := influxdb.Connect(context.Background(), testConfig(f.URL), nil)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := client.Close(); err != nil {
			t.Errorf("Close() #%d error = %v", i+1, err)
		}
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() after Close error = %v, want ErrNotConnected", err)
	}

	// Writes after Close are dropped.
	client.WriteCycleMetrics("run-1", 1, 0.1, 0.01, time.Now())
	client.WriteDeviceEnergy("run-1", "pump", 3, time.Now())
	if lines := f.recorded(); len(lines) != 0 {
		t.Errorf("lines after Close = %v, want none", lines)
	}
}

func TestClose_Nil(t *testing.T) {
	var client *influxdb.Client
	if err := client.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
}
