package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"glasslink/api"
	"glasslink/config"
	"glasslink/handlers"
	"glasslink/services/dispatch"
	"glasslink/services/library"
	"glasslink/services/playback"
	"glasslink/services/registry"
	"glasslink/services/settings"
	"glasslink/services/subtitles"
	"glasslink/utils"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}
	setupLogging(cfg.Logging)

	reg := registry.NewService()

	settingsSvc, err := settings.NewService(filepath.Join(cfg.Storage.DataDir, "settings"))
	if err != nil {
		log.Fatalf("[main] settings store: %v", err)
	}

	subtitlesSvc, err := subtitles.NewService()
	if err != nil {
		log.Fatalf("[main] subtitle cache: %v", err)
	}

	playbackSvc := playback.NewService()
	reg.AttachStore(playbackSvc)

	librarySvc := library.NewService(afero.NewOsFs(), cfg.Media.AudioSourceDir)
	if !librarySvc.Configured() {
		log.Printf("[main] audio source dir not configured, library disabled")
	}

	executor := dispatch.NewExecutor(reg, playbackSvc, subtitlesSvc)

	deviceHandler := handlers.NewDeviceHandler(reg)
	mediaHandler := handlers.NewMediaHandler(reg, settingsSvc, executor)
	textHandler := handlers.NewTextHandler(reg, executor)
	audioHandler := handlers.NewAudioHandler(reg, librarySvc, subtitlesSvc, playbackSvc)
	settingsHandler := handlers.NewSettingsHandler(settingsSvc)

	router := utils.NewRouter()

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.Use(api.IdentityMiddleware())

	apiRouter.HandleFunc("/device/connect", deviceHandler.Connect).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/device/disconnect", deviceHandler.Disconnect).Methods(http.MethodPost, http.MethodOptions)

	apiRouter.HandleFunc("/media/event", mediaHandler.Event).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/media/events", mediaHandler.Events).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/media/screen", mediaHandler.Screen).Methods(http.MethodPost, http.MethodOptions)

	apiRouter.HandleFunc("/upload-text", textHandler.Upload).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/text", textHandler.Full).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/text/current", textHandler.Current).Methods(http.MethodGet, http.MethodOptions)

	apiRouter.HandleFunc("/audio/directories", audioHandler.Directories).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/audio/files", audioHandler.Files).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/audio/stream/{id}", audioHandler.Stream).Methods(http.MethodGet, http.MethodHead, http.MethodOptions)
	apiRouter.HandleFunc("/audio/subtitles/{id}", audioHandler.LoadSubtitles).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/audio/state", audioHandler.State).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/audio/repeat", audioHandler.Repeat).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/audio/speed", audioHandler.Speed).Methods(http.MethodPost, http.MethodOptions)
	apiRouter.HandleFunc("/audio/settings", audioHandler.Settings).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/audio/commands", audioHandler.Commands).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/audio/subtitle-end", audioHandler.SubtitleEnd).Methods(http.MethodPost, http.MethodOptions)

	apiRouter.HandleFunc("/settings/media", settingsHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/settings/media", settingsHandler.Update).Methods(http.MethodPut, http.MethodOptions)
	apiRouter.HandleFunc("/settings/actions", settingsHandler.Actions).Methods(http.MethodGet, http.MethodOptions)
	apiRouter.HandleFunc("/settings/triggers", settingsHandler.Triggers).Methods(http.MethodGet, http.MethodOptions)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	log.Printf("[main] listening on %s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("[main] server: %v", err)
	}
}

// setupLogging directs the standard logger to a rotated file when one
// is configured, mirroring to stderr so container logs stay useful.
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
	if cfg.File == "" {
		return
	}
	rotated := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotated))
}
