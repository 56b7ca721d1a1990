package main

import (
	"github.com/iot-for-tillgenglighet/messaging-golang/pkg/messaging"

	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/application"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/domain"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/config"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/logging"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/metrics"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/repositories/database"
	"github.com/iot-for-tillgenglighet/smart-house-registry/internal/pkg/infrastructure/repositories/store"
)

func main() {
	log := logging.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %s", err.Error())
	}

	if err := logging.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to configure logging: %s", err.Error())
	}

	serviceName := cfg.Service.Name
	log.Infof("Starting up %s ...", serviceName)

	var messenger application.MessagingContext = noopMessenger{}
	if cfg.Messaging.Enabled {
		mqConfig := messaging.LoadConfiguration(serviceName)
		ctx, err := messaging.Initialize(mqConfig)
		if err != nil {
			log.Fatalf("Failed to initialize messaging: %s", err.Error())
		}
		defer ctx.Close()
		messenger = ctx
	}

	s := newStore(cfg, log)
	house := domain.NewSmartHouse(s)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	application.CreateRouterAndStartServing(log, messenger, house, s, m, cfg.Service.Port)
}

func newStore(cfg *config.Config, log logging.Logger) *store.Store {
	var connector database.ConnectorFunc

	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Infof("Using a volatile in-memory store")
		return store.NewInMemory()
	case config.DriverSQLite:
		connector = database.NewSQLiteConnector(cfg.Database.Path)
	case config.DriverPostgres:
		connector = database.NewPostgreSQLConnector(database.PostgreSQLSettings{
			Host:     cfg.Database.Host,
			User:     cfg.Database.User,
			Name:     cfg.Database.Name,
			Password: cfg.Database.Password,
			SSLMode:  cfg.Database.SSLMode,
		}, log)
	}

	db, err := database.NewDatabaseConnection(connector, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %s", err.Error())
	}

	s, err := store.New(db)
	if err != nil {
		log.Fatalf("Failed to load store: %s", err.Error())
	}

	return s
}

type noopMessenger struct{}

func (noopMessenger) PublishOnTopic(message messaging.TopicMessage) error {
	return nil
}
