package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"shophub/config"
	"shophub/handlers"
	"shophub/services"
)

func main() {
	app := &cli.App{
		Name:  "shophub",
		Usage: "storefront API over a public product catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "catalog-url",
				Usage: "base URL of the product catalog API",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the storefront HTTP API",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "port to listen on"},
				},
				Action: serve,
			},
			productsCommand(),
			productCommand(),
			categoriesCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("shophub failed")
	}
}

// loadConfig reads the environment and applies command line overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if c.IsSet("catalog-url") {
		cfg.CatalogURL = c.String("catalog-url")
	}
	if c.IsSet("port") {
		cfg.ServerPort = c.String("port")
	}
	setupLogging(cfg)
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	if cfg.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Catalog is fetched once in the background; requests wait for it.
	client := services.NewCatalogClient(cfg.CatalogURL, &http.Client{})
	loader := services.NewCatalogLoader(client, log.StandardLogger())
	loader.Start(ctx)

	sessions := services.NewSessions(log.StandardLogger())
	go services.NewSessionSweeper(sessions, cfg.SweepInterval, cfg.SessionTTL).Run(ctx)

	var images *services.ImageCDN
	if cfg.CloudinaryURL != "" {
		images, err = services.NewImageCDN(cfg.CloudinaryURL, cfg.ImageTransformation)
		if err != nil {
			log.WithError(err).Error("image CDN disabled")
			images = nil
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger(log.StandardLogger()))

	handlers.New(handlers.Options{
		Catalog:       loader,
		Products:      client,
		Sessions:      sessions,
		Images:        images,
		SessionSecret: []byte(cfg.SessionSecret),
		SessionTTL:    cfg.SessionTTL,
		SecureCookies: cfg.IsProduction(),
		Logger:        log.StandardLogger(),
	}).RegisterRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.ServerPort,
		Handler: corsHandler.Handler(router),
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("starting ShopHub server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("failed to start server")
		}
	}()

	waitForKillSignal(getKillSignalChan())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func getKillSignalChan() chan os.Signal {
	osKillSignalChan := make(chan os.Signal, 1)
	signal.Notify(osKillSignalChan, os.Interrupt, syscall.SIGTERM)
	return osKillSignalChan
}

func waitForKillSignal(killSignalChan <-chan os.Signal) {
	killSignal := <-killSignalChan
	switch killSignal {
	case os.Interrupt:
		log.Info("got SIGINT...")
	case syscall.SIGTERM:
		log.Info("got SIGTERM...")
	}
}
