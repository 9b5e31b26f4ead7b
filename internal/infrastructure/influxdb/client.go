package influxdb

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/nerrad567/rankine-core/internal/infrastructure/config"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 5 * time.Second

	// A run produces five points, so the default batch holds twenty runs.
	defaultBatchSize     = 100
	defaultFlushInterval = 10 * time.Second

	// sourceTag marks every point written by the solver.
	sourceTag = "rankine"
)

// Logger receives asynchronous write failures.
type Logger interface {
	Warn(msg string, args ...any)
}

// Client writes solved-run metrics to InfluxDB v2 through a batching,
// non-blocking write API. It satisfies cycle.MetricsWriter.
//
// Thread Safety: all methods are safe for concurrent use.
type Client struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	logger   Logger

	// mu orders writes against Close.
	mu     sync.RWMutex
	closed bool

	failures atomic.Int64
}

// Connect pings the server and opens a write API on cfg's org and bucket.
//
// Parameters:
//   - ctx: bounds the initial ping together with an internal timeout
//   - cfg: InfluxDB section of config.yaml
//   - logger: receives failed batch writes; may be nil
//
// Returns:
//   - *Client: ready for WriteCycleMetrics and WriteDeviceEnergy
//   - error: ErrDisabled, or ErrConnectionFailed if the ping fails
func Connect(ctx context.Context, cfg config.InfluxDBConfig, logger Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}

	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, clientOptions(cfg))

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	healthy, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrConnectionFailed, cfg.URL, err)
	}
	if !healthy {
		client.Close()
		return nil, fmt.Errorf("%w: %s: server not ready", ErrConnectionFailed, cfg.URL)
	}

	c := &Client{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Org, cfg.Bucket),
		logger:   logger,
	}
	go c.drainErrors(c.writeAPI.Errors())
	return c, nil
}

// clientOptions maps the config section onto client options. Unset or
// negative batch settings fall back to the defaults.
func clientOptions(cfg config.InfluxDBConfig) *influxdb2.Options {
	batch := uint(defaultBatchSize)
	if cfg.BatchSize > 0 {
		batch = uint(cfg.BatchSize)
	}
	flush := defaultFlushInterval
	if cfg.FlushInterval > 0 {
		flush = time.Duration(cfg.FlushInterval) * time.Second
	}
	return influxdb2.DefaultOptions().
		SetBatchSize(batch).
		SetFlushInterval(uint(flush.Milliseconds())).
		AddDefaultTag("source", sourceTag)
}

// drainErrors logs each failed batch until the write API is closed.
func (c *Client) drainErrors(errs <-chan error) {
	for err := range errs {
		n := c.failures.Add(1)
		if c.logger != nil {
			c.logger.Warn("influxdb batch write failed", "error", err, "failures", n)
		}
	}
}

// Failures returns how many batch writes the server has rejected.
func (c *Client) Failures() int64 {
	return c.failures.Load()
}

// Close sends buffered points and releases the client. Later writes are
// dropped. Closing a nil client is not an error.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.writeAPI.Flush()
	c.client.Close()
	return nil
}

// HealthCheck pings the server. It returns ErrNotConnected after Close.
func (c *Client) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	healthy, err := c.client.Ping(ctx)
	if err != nil {
		return fmt.Errorf("influxdb health check: %w", err)
	}
	if !healthy {
		return fmt.Errorf("influxdb health check: server not ready")
	}
	return nil
}
