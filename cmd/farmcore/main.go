// FarmCore - Farm Management Irrigation Backend
//
// This is the main entry point for the FarmCore application.
// FarmCore is the irrigation control backend for Tiller Labs farms:
//   - Per-zone valve control with simulated hardware latency
//   - Farm-wide aggregation, emergency shutdown, bulk operations
//   - REST API + WebSocket stream for field dashboards
//
// For architecture details, see: docs/architecture/system-overview.md
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/tillerlabs/farmcore/migrations"

	"github.com/tillerlabs/farmcore/internal/analytics"
	"github.com/tillerlabs/farmcore/internal/api"
	"github.com/tillerlabs/farmcore/internal/audit"
	"github.com/tillerlabs/farmcore/internal/control"
	"github.com/tillerlabs/farmcore/internal/infrastructure/config"
	"github.com/tillerlabs/farmcore/internal/infrastructure/database"
	"github.com/tillerlabs/farmcore/internal/infrastructure/influxdb"
	"github.com/tillerlabs/farmcore/internal/infrastructure/logging"
	"github.com/tillerlabs/farmcore/internal/infrastructure/mqtt"
	"github.com/tillerlabs/farmcore/internal/infrastructure/tsdb"
	"github.com/tillerlabs/farmcore/internal/system"
	"github.com/tillerlabs/farmcore/internal/zone"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting FarmCore",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
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

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise zone registry
	zoneRepo := zone.NewSQLiteRepository(db.DB)
	zones := zone.NewRegistry(zoneRepo)
	zones.SetLogger(log)

	if refreshErr := zones.RefreshFarm(ctx, cfg.Farm.DefaultID); refreshErr != nil {
		return fmt.Errorf("loading zone registry: %w", refreshErr)
	}
	log.Info("zone registry initialised",
		"farm_id", cfg.Farm.DefaultID,
		"zones", zones.ZoneCount(cfg.Farm.DefaultID),
	)

	// Command audit trail - shared by the controller and orchestrator
	auditRepo := audit.NewSQLiteRepository(db.DB)

	// Irrigation control: per-zone commands and farm-wide orchestration.
	// Both share the lock table so a bulk operation and a single-zone
	// command can never race on the same zone.
	hw := control.NewHardware(cfg.Hardware)
	profile := control.ProfileFromConfig(cfg.Hardware.Latencies)
	locks := control.NewLockTable()

	controller := control.NewController(zones, hw, profile, locks)
	controller.SetRecorder(auditRepo)
	controller.SetLogger(log)

	orch := control.NewOrchestrator(zones, hw, profile, locks)
	orch.SetRecorder(auditRepo)
	orch.SetLogger(log)

	// System flags and farm-wide aggregation
	flags := system.NewStore(db.DB)
	orch.SetFlagStore(flags)

	manager := system.NewManager(zones, flags)
	manager.SetLogger(log)
	manager.SetStopper(system.StopperFunc(func(ctx context.Context, farmID string) (int, error) {
		receipt, stopErr := orch.StopAll(ctx, farmID)
		if stopErr != nil {
			return 0, stopErr
		}
		return receipt.ZonesAffected, nil
	}))
	log.Info("irrigation control initialised", "simulate_hardware", cfg.Hardware.Simulate)

	// Local water usage samples + analytics
	usageStore := tsdb.NewStore(db.DB)
	analyticsService := analytics.NewService(usageStore, zones)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// API server
	srv, err := api.New(api.Deps{
		Config:      cfg.API,
		WS:          cfg.WebSocket,
		Security:    cfg.Security,
		DefaultFarm: cfg.Farm.DefaultID,
		Logger:      log,
		Zones:       zones,
		Controller:  controller,
		Orch:        orch,
		System:      manager,
		Analytics:   analyticsService,
		Audit:       auditRepo,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	// Fan command outcomes out to WebSocket clients, MQTT, InfluxDB,
	// and the usage store. Nil sinks are skipped.
	fanout := api.NewFanout(srv.Hub(), mqttClient, influxClient, usageStore, manager, log)
	controller.SetEvents(fanout)
	orch.SetEvents(fanout)

	if startErr := srv.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := srv.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		"tls", cfg.API.TLS.Enabled,
	)

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient, srv); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("FarmCore stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses FARMCORE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("FARMCORE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies all infrastructure connections are healthy.
// The MQTT and InfluxDB clients may be nil if disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client, srv *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	if err := srv.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
