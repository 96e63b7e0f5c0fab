package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/littlelemon/config"
	"github.com/ray-remotestate/littlelemon/database"
	"github.com/ray-remotestate/littlelemon/server"
)

const shutdownTimeOut = 10 * time.Second

func main() {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	config.Init()

	if err := database.ConnectAndMigrate(); err != nil {
		logrus.Panicf("failed to initialize database, error: %v", err)
	}
	logrus.Println("migration is successful")

	svr := server.SetupRoutes()
	go func() {
		logrus.Printf("listening on %s", config.Port)
		if err := svr.Run(config.Port); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Panic("server stopped unexpectedly")
		}
	}()

	<-done

	logrus.Info("shutting down...")
	if err := svr.Shutdown(shutdownTimeOut); err != nil {
		logrus.WithError(err).Error("failed to shut down server cleanly")
	}
	if err := database.ShutdownDatabase(); err != nil {
		logrus.WithError(err).Error("failed to close database connection!")
	}
}
