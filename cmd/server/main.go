package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carelink/config"
	"carelink/internal/database"
	"carelink/internal/router"
	"carelink/pkg/cloudinary"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	if cfg.Server.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}
	if err := database.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}
	database.SeedAdmin(db, &cfg.Admin)

	cloud, err := cloudinary.NewClientFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		logrus.WithError(err).Fatal("cloudinary init failed")
	}

	engine := router.Setup(cfg, db, cloud)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logrus.WithField("port", cfg.Server.Port).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Fatal("listen failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("server shutdown failed")
	}
	logrus.Info("server stopped")
}
