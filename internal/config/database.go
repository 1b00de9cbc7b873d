package config

import (
	"context"
	"fmt"
	"time"

	influxdb3 "github.com/InfluxCommunity/influxdb3-go/v2/influxdb3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"envizi_webhook/pkg/logger"
)

// MongoDatabase wraps the MongoDB client and target database.
type MongoDatabase struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// InitMongo connects to MongoDB and verifies the connection.
func InitMongo(cfg *Config) (*MongoDatabase, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(50).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	logger.Infof("MongoDB connected: %s", cfg.MongoDB)

	return &MongoDatabase{
		Client:   client,
		Database: client.Database(cfg.MongoDB),
	}, nil
}

// Close disconnects the MongoDB client.
func (m *MongoDatabase) Close() error {
	if m.Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}

// InitInflux creates the InfluxDB v3 client used for execution metrics.
// Returns nil without error when metrics are disabled.
func InitInflux(cfg *Config) (*influxdb3.Client, error) {
	if !cfg.InfluxEnabled {
		return nil, nil
	}

	clientConfig := influxdb3.ClientConfig{
		Host:     cfg.InfluxURL,
		Database: cfg.InfluxDatabase,
		WriteOptions: &influxdb3.WriteOptions{
			DefaultTags: map[string]string{
				"source": "envizi_webhook",
			},
		},
	}
	if cfg.InfluxToken != "" {
		clientConfig.Token = cfg.InfluxToken
	}

	client, err := influxdb3.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("influx client creation failed: %w", err)
	}

	logger.Infof("InfluxDB metrics sink connected: %s", cfg.InfluxDatabase)
	return client, nil
}
