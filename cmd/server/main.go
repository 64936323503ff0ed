package main

import (
	"context"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"sketchparty/configs"
	"sketchparty/crypto"
	"sketchparty/game"
	"sketchparty/logger"
	"sketchparty/migrations"
	"sketchparty/storage"
)

func CreateServer(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(ctx *gin.Context) { ctx.String(http.StatusOK, "healthy") })

	r.Use(func(ctx *gin.Context) {
		origin := ctx.Request.Header.Get("Origin")
		if origin == "" || slices.Contains(allowedOrigins, origin) {
			ctx.Next()
			return
		}
		ctx.String(http.StatusForbidden, "forbidden origin")
		ctx.Abort()
	})

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Origin",
			"Upgrade",
			"Connection",
			"Sec-WebSocket-Key",
			"Sec-WebSocket-Version",
			"Sec-WebSocket-Extensions",
			"Sec-WebSocket-Protocol",
		},
	}))

	return r
}

func main() {
	logger.Setup(configs.Envs.GIN_MODE)

	if len(configs.Envs.JWT_KEY) == 0 {
		log.Fatal().Msg("missing jwt signing key")
	}

	allowedOrigins := []string{}
	if configs.Envs.FRONTEND_ORIGIN != "" {
		if configs.Envs.GIN_MODE == "release" {
			allowedOrigins = append(allowedOrigins,
				"https://"+configs.Envs.FRONTEND_ORIGIN,
				"https://www."+configs.Envs.FRONTEND_ORIGIN)
		} else {
			allowedOrigins = append(allowedOrigins, "http://"+configs.Envs.FRONTEND_ORIGIN)
		}
	}

	// Rooms are correct on memory alone; postgres adds durability and a
	// bigger word list.
	var store game.Store
	var words game.WordProvider = game.StaticWords{}
	if configs.Envs.POSTGRES_URL != "" {
		if err := migrations.Migrate(configs.Envs.POSTGRES_URL); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
		pgRepo, err := storage.NewPostgresRepo(context.Background(), configs.Envs.POSTGRES_URL)
		if err != nil {
			log.Fatal().Err(err).Msg("connect postgres")
		}
		defer pgRepo.Close()
		store = pgRepo
		words = game.FallbackWords{Primary: pgRepo}
	} else {
		log.Warn().Msg("POSTGRES_URL not set, running in-memory only")
		store = storage.NewMemoryRepo()
	}

	registry := game.NewRegistry(words, store)
	defer registry.Close()

	tokens := crypto.NewJWTManager(configs.Envs.JWT_KEY, game.SessionAge)
	handler := game.NewHandler(registry, tokens)

	r := CreateServer(allowedOrigins)
	handler.RegisterRoutes(r)

	addr := configs.Envs.LISTEN_ADDR
	if addr == "" {
		addr = ":5000"
	}
	log.Info().Str("addr", addr).Msg("server listening")
	if err := r.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
