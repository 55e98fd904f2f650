package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/aalghefa/ecologic-backend/internal/config"
	"github.com/aalghefa/ecologic-backend/internal/core"
	db "github.com/aalghefa/ecologic-backend/internal/core/database"
	"github.com/aalghefa/ecologic-backend/internal/core/extraction_engine"
	objectclient "github.com/aalghefa/ecologic-backend/internal/core/object-client"
	"github.com/aalghefa/ecologic-backend/internal/services"
)

type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	Server       *Server
}

// NewApp wires storage, services and the HTTP server. Object storage is
// optional: without credentials the app still serves everything except dish
// image uploads.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(initCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Msg("database initialized and ready")

	var objClient core.ObjectClient
	if cfg.HasObjectStorage() {
		objClient, err = objectclient.NewS3Client(initCtx, cfg)
		if err != nil {
			_ = dbClient.Close()
			return nil, err
		}
	} else {
		log.Warn().Msg("object storage not configured, dish image uploads disabled")
	}

	recoverer := extraction_engine.NewDocconvRecoverer(false)

	emissionsSvc := services.NewEmissionsService(dbClient)
	menuSvc := services.NewMenuService(recoverer)
	dishSvc := services.NewDishService(dbClient, objClient, cfg.BucketName)
	ingredientSvc := services.NewIngredientService(dbClient, emissionsSvc)
	ledgerSvc := services.NewLedgerService(dbClient)

	server := NewServer(cfg, menuSvc, dishSvc, ingredientSvc, emissionsSvc, ledgerSvc)

	return &App{DBClient: dbClient, ObjectClient: objClient, Server: server}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
