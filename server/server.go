package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"OnAirFM/config"
	"OnAirFM/core/importer"
	"OnAirFM/core/live"
	"OnAirFM/db"
	"OnAirFM/logger"
	"OnAirFM/model"
	"OnAirFM/repository"
	"OnAirFM/storage"

	"github.com/gorilla/mux"
)

// Start initializes the backing services and runs the HTTP server until a
// shutdown signal arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxMB,
		MaxAge:     cfg.LogMaxAge,
	})

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.ConnectRedis(cfg); err != nil {
		logger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer db.CloseRedis()
	logger.Info("Successfully connected to Redis")

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(
		&model.Song{},
		&model.Playlist{},
		&model.PlaylistSong{},
		&model.Show{},
	); err != nil {
		logger.Fatal("Failed to migrate models", logger.ErrorField(err))
	}

	karaokeRepo := repository.NewMySQLKaraokeRepository(db.DB)
	userRepo := repository.NewMySQLUserRepository(db.DB)
	songRepo := repository.NewGormSongRepository(db.GormDB)
	playlistRepo := repository.NewGormPlaylistRepository(db.GormDB)
	showRepo := repository.NewGormShowRepository(db.GormDB)

	hub := live.NewHub()
	go hub.Run()

	apiHandler := NewAPIHandler(karaokeRepo, userRepo, songRepo, playlistRepo, showRepo, hub, db.DB, cfg)

	// Background import of karaoke files dropped into the import directory.
	importCtx, cancelImport := context.WithCancel(context.Background())
	defer cancelImport()
	if cfg.ImportDir != "" {
		if err := os.MkdirAll(cfg.ImportDir, 0o755); err != nil {
			logger.Warn("failed to create import directory", logger.String("dir", cfg.ImportDir), logger.ErrorField(err))
		} else {
			imp := importer.New(karaokeRepo, "en")
			go func() {
				if err := imp.Watch(importCtx, cfg.ImportDir); err != nil && importCtx.Err() == nil {
					logger.Error("import watcher stopped", logger.ErrorField(err))
				}
			}()
		}
	}

	router := newRouter(apiHandler)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server listening", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	cancelImport()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
	logger.Info("Server exited")
}

// newRouter builds the route table.
func newRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// Auth
	router.HandleFunc("/api/auth/register", h.RegisterHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", h.AuthMiddleware(h.LogoutHandler)).Methods(http.MethodPost)

	// Public karaoke catalog
	router.HandleFunc("/api/karaoke/search", h.SearchKaraokeHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/karaoke/{id}", h.GetKaraokeHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/karaoke/{id}/play", h.PlayKaraokeHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/karaoke/{id}/rate", h.AuthMiddleware(h.RateKaraokeHandler)).Methods(http.MethodPost)

	// Admin karaoke catalog
	admin := func(f http.HandlerFunc) http.HandlerFunc { return h.AuthMiddleware(h.AdminMiddleware(f)) }
	router.HandleFunc("/api/admin/karaoke", admin(h.ListKaraokeHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/karaoke", admin(h.CreateKaraokeHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/admin/karaoke/duplicates", admin(h.KaraokeDuplicatesHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/karaoke/stats", admin(h.KaraokeStatsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/admin/karaoke/{id}", admin(h.UpdateKaraokeHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/admin/karaoke/{id}", admin(h.DeleteKaraokeHandler)).Methods(http.MethodDelete)

	// Song library
	router.HandleFunc("/api/songs", h.GetSongsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs", h.AuthMiddleware(h.UploadSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/songs/{id}", h.GetSongHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/songs/{id}", h.AuthMiddleware(h.UpdateSongHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/songs/{id}", h.AuthMiddleware(h.DeleteSongHandler)).Methods(http.MethodDelete)

	// Playlists
	router.HandleFunc("/api/playlists", h.AuthMiddleware(h.GetPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}", h.AuthMiddleware(h.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}", h.AuthMiddleware(h.UpdatePlaylistHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/playlists/{id}", h.AuthMiddleware(h.DeletePlaylistHandler)).Methods(http.MethodDelete)
	router.HandleFunc("/api/playlists/{id}/songs", h.AuthMiddleware(h.GetPlaylistSongsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}/songs", h.AuthMiddleware(h.AddPlaylistSongHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}/songs/{song_id}", h.AuthMiddleware(h.RemovePlaylistSongHandler)).Methods(http.MethodDelete)

	// Show schedule
	router.HandleFunc("/api/shows", h.GetShowsHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/shows", h.AuthMiddleware(h.CreateShowHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/shows/{id}", h.GetShowHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/shows/{id}", h.AuthMiddleware(h.UpdateShowHandler)).Methods(http.MethodPut)
	router.HandleFunc("/api/shows/{id}", h.AuthMiddleware(h.DeleteShowHandler)).Methods(http.MethodDelete)

	// Live
	router.HandleFunc("/ws/onair", h.OnAirWebsocketHandler)
	router.HandleFunc("/api/onair/now-playing", admin(h.NowPlayingHandler)).Methods(http.MethodPost)

	// Stored audio files
	router.HandleFunc("/files/{key:.*}", h.ServeFileHandler).Methods(http.MethodGet)

	return router
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
