// Rankine Core - steam power cycle solver service
//
// This is the main entry point. It solves ideal Rankine cycles (pump,
// boiler, turbine, condenser) on IAPWS-IF97 water properties and serves
// them over HTTP, WebSocket and, when enabled, MQTT. Solved runs are kept
// in SQLite and optionally mirrored to InfluxDB.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/nerrad567/rankine-core/migrations"

	"github.com/nerrad567/rankine-core/internal/api"
	"github.com/nerrad567/rankine-core/internal/cycle"
	"github.com/nerrad567/rankine-core/internal/infrastructure/config"
	"github.com/nerrad567/rankine-core/internal/infrastructure/database"
	"github.com/nerrad567/rankine-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/rankine-core/internal/infrastructure/logging"
	"github.com/nerrad567/rankine-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/rankine-core/internal/steam"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// defaultConfigPath is used when RANKINE_CONFIG is unset and the file exists.
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the application logic, separated from main for testability.
// It returns nil on a clean shutdown after ctx is cancelled.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // Sequential startup of optional components
	log := logging.Default()
	log.Info("starting Rankine Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	applied, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete", "applied", applied)

	svc := cycle.NewService(cycle.NewSQLiteRepository(db.DB), steam.IF97{}, log)
	health := map[string]api.HealthChecker{"database": db}

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := startMQTT(cfg.MQTT, svc, log)
		if mqttErr != nil {
			return mqttErr
		}
		defer func() {
			if unsubErr := mqttClient.Unsubscribe(mqtt.Topics{}.CycleRequest()); unsubErr != nil {
				log.Warn("error leaving MQTT request topic", "error", unsubErr)
			}
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		health["mqtt"] = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	if cfg.InfluxDB.Enabled {
		influxClient, influxErr := influxdb.Connect(ctx, cfg.InfluxDB, log.With("component", "influxdb"))
		if influxErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", influxErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection", "failed_batches", influxClient.Failures())
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		svc.AddSink(cycle.NewMetricsSink(influxClient))
		health["influxdb"] = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	server, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Cycles:  svc,
		Health:  health,
		DB:      db,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	svc.AddSink(cycle.NewHubSink(server.Hub()))

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, health); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	if cfg.Cycle.SolveOnStartup {
		res, solveErr := svc.Solve(ctx, referenceSpec(cfg.Cycle))
		if solveErr != nil {
			return fmt.Errorf("solving reference cycle: %w", solveErr)
		}
		log.Info("reference cycle",
			"run_id", res.ID,
			"efficiency", res.Efficiency,
			"net_work_kw", res.NetWork,
			"turbine_work_out_kw", res.TurbineWorkOut,
			"condenser_heat_out_kw", res.CondenserHeatOut,
			"back_work_ratio", res.BackWorkRatio,
		)
	}

	log.Info("initialisation complete, waiting for shutdown signal")
	<-ctx.Done()
	log.Info("shutdown signal received, cleaning up")

	log.Info("Rankine Core stopped")
	return nil
}

// startMQTT connects, publishes results through a sink and subscribes the
// request topic to the service.
func startMQTT(cfg config.MQTTConfig, svc *cycle.Service, log *logging.Logger) (*mqtt.Client, error) {
	client, err := mqtt.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() { log.Info("MQTT connected") })
	client.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })

	topics := mqtt.Topics{}
	svc.AddSink(cycle.NewMQTTSink(client, topics.CycleResult, byte(cfg.QoS)))

	if err := client.Subscribe(topics.CycleRequest(), byte(cfg.QoS), svc.HandleRequest); err != nil {
		client.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("subscribing to %s: %w", topics.CycleRequest(), err)
	}

	log.Info("MQTT ready",
		"broker", fmt.Sprintf("%s:%d", cfg.Broker.Host, cfg.Broker.Port),
		"client_id", cfg.Broker.ClientID,
		"request_topic", topics.CycleRequest(),
	)
	return client, nil
}

// referenceSpec converts the cycle config section into a Spec.
func referenceSpec(c config.CycleConfig) cycle.Spec {
	return cycle.Spec{
		MassFlow:          c.MassFlow,
		PumpWorkIn:        c.PumpWorkIn,
		BoilerHeatIn:      c.BoilerHeatIn,
		CondenserPressure: c.CondenserPressure,
	}
}

// getConfigPath returns RANKINE_CONFIG, else the default file if present,
// else "" so Load uses built-in defaults.
func getConfigPath() string {
	if path := os.Getenv("RANKINE_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// healthCheck runs every component check and joins the failures.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	var errs []error
	for name, check := range checks {
		if err := check.HealthCheck(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
