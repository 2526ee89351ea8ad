package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"yatube/cache"
	"yatube/config"
	"yatube/db"
	"yatube/models"
	"yatube/processing"
	"yatube/storage"

	"github.com/fatih/color"
	"github.com/gin-gonic/autotls"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

func main() {
	fmt.Println(color.HiCyanString("__   __    _         _\n\\ \\ / /_ _| |_ _   _| |__   ___\n \\ V / _` | __| | | | '_ \\ / _ \\\n  | | (_| | |_| |_| | |_) |  __/\n  |_|\\__,_|\\__|\\__,_|_.__/ \\___|"))
	color.HiBlack("=================================\n")

	config.Init()
	if config.DEBUG_MODE {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}
	if err := db.Init(config.MYSQL_DSN, config.POSTGRES_DSN, config.SQLITE_FILE); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when connecting to the database")
	}
	if err := storage.Init(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initialising storage")
	}
	if err := models.Init(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when running database auto migration")
	}
	if err := cache.Init(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when creating the cache")
	}
	if config.ADMIN_USERNAME != "" && config.ADMIN_PASSWORD != "" {
		if _, err := models.EnsureAdmin(config.ADMIN_USERNAME, config.ADMIN_PASSWORD); err != nil {
			log.Error().Err(err).Str("user", config.ADMIN_USERNAME).Msg("Cannot create the admin user")
		}
	}
	quartz, err := processing.Start(config.CLEANUP_SCHEDULE)
	if err != nil {
		log.Fatal().Err(err).Str("schedule", config.CLEANUP_SCHEDULE).Msg("Invalid cleanup schedule")
	}
	defer quartz.Stop()

	router, err := newRouter(true)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot create the router")
	}
	go func() {
		var err error
		if config.TLS_DOMAINS != "" {
			err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
		} else {
			log.Info().Str("address", config.BIND_ADDRESS).Msg("Listening")
			err = router.Run(config.BIND_ADDRESS)
		}
		log.Fatal().Err(err).Msg("Server stopped")
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")
}
