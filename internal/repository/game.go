package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"goban/internal/bootstrap"
	"goban/internal/domain/game"
	errs "goban/internal/errors"
)

const archiveCollection = "games"

type GameRepository struct {
	cfg   bootstrap.Config
	log   *zap.SugaredLogger
	redis *redis.Client
	mongo *mongo.Database
}

func NewGameRepository(cfg bootstrap.Config, log *zap.SugaredLogger, redis *redis.Client, mongo *mongo.Database) *GameRepository {
	return &GameRepository{
		cfg:   cfg,
		log:   log,
		redis: redis,
		mongo: mongo,
	}
}

func gameKey(gameID string) string {
	return "game:" + gameID
}

// SaveGame writes the cached game as one redis hash and refreshes its TTL.
func (g *GameRepository) SaveGame(ctx context.Context, gameID string, cached game.CachedGame) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := gameKey(gameID)
	_, err := g.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, cached)
		if g.cfg.SgfTTL > 0 {
			pipe.Expire(ctx, key, g.cfg.SgfTTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save game %s to redis: %w: %w", gameID, errs.ErrInternal, err)
	}
	return nil
}

func (g *GameRepository) LoadGame(ctx context.Context, gameID string) (game.CachedGame, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res := g.redis.HGetAll(ctx, gameKey(gameID))
	fields, err := res.Result()
	if err != nil {
		return game.CachedGame{}, fmt.Errorf("load game %s from redis: %w: %w", gameID, errs.ErrInternal, err)
	}
	if len(fields) == 0 {
		return game.CachedGame{}, fmt.Errorf("game %s: %w", gameID, errs.ErrGameNotFound)
	}

	var cached game.CachedGame
	if err := res.Scan(&cached); err != nil {
		return game.CachedGame{}, fmt.Errorf("game %s: %v: %w", gameID, err, errs.ErrMalformedRecord)
	}
	return cached, nil
}

func (g *GameRepository) ArchiveGame(ctx context.Context, archived game.ArchivedGame) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection(archiveCollection)
	if _, err := collection.InsertOne(ctx, archived); err != nil {
		g.log.Errorf("failed to insert game to database: %v", err)
		return fmt.Errorf("archive game %s: %w: %w", archived.GameID, errs.ErrInternal, err)
	}

	g.log.Infof("game %s archived with id: %s", archived.GameID, archived.ID)
	return nil
}

func (g *GameRepository) GetArchivedGame(ctx context.Context, archiveID string) (game.ArchivedGame, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	collection := g.mongo.Collection(archiveCollection)
	filter := bson.M{"_id": archiveID}

	var found game.ArchivedGame
	err := collection.FindOne(ctx, filter).Decode(&found)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return game.ArchivedGame{}, fmt.Errorf("archived game %s: %w", archiveID, errs.ErrGameNotFound)
	} else if err != nil {
		g.log.Error(err)
		return game.ArchivedGame{}, fmt.Errorf("find archived game %s: %w: %w", archiveID, errs.ErrInternal, err)
	}

	return found, nil
}
