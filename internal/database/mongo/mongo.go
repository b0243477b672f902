package mongo

import (
	"context"
	"time"

	"github.com/chngmn/Quizly-server/internal/config"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	Client   *mongo.Client
	Database *mongo.Database
)

func InitMongoDB(cfg *config.MongoDBConfig) error {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.PoolSize).
		SetConnectTimeout(cfg.Timeout).
		SetRetryWrites(true).
		SetRetryReads(true)

	var err error
	Client, err = mongo.Connect(opts)
	if err != nil {
		log.Error().Err(err).Msg("error connecting to MongoDB")
		return err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := Client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Error().Err(err).Msg("error pinging MongoDB")
		return err
	}

	Database = Client.Database(cfg.Database)
	log.Info().Str("database", cfg.Database).Uint64("pool_size", cfg.PoolSize).Msg("connected to MongoDB")

	return nil
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context) error {
	return Client.Ping(ctx, readpref.Primary())
}

func CloseDB() {
	if Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := Client.Disconnect(ctx); err != nil {
			log.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}
}

func GetCollection(name string) *mongo.Collection {
	return Database.Collection(name)
}
