package main

import (
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/expenseflow/backend/internal/auth"
	v1 "github.com/expenseflow/backend/internal/controllers/v1"
	"github.com/expenseflow/backend/internal/models"
	"github.com/expenseflow/backend/internal/policy"
	"github.com/expenseflow/backend/internal/router"
	"github.com/expenseflow/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	// Create data directory
	dataDir := filepath.Join(".", "data")
	err := os.MkdirAll(dataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	err = models.Connect("data/expenseflow.db")
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// A fresh database needs an administrator to log in with
	err = seedAdmin()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Receipt uploads are stored on the local disk
	uploadDir := filepath.Join(dataDir, "uploads")
	files, err := storage.NewLocal(uploadDir)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}
	v1.Files = files

	// Get the base URL the backend is reachable at
	apiURL, ok := os.LookupEnv("API_URL")
	if !ok {
		apiURL = "http://localhost:8080"
	}

	url, err := url.Parse(apiURL)
	if err != nil {
		log.Fatal().Str("API_URL", apiURL).Msg("API_URL is not a valid URL")
	}

	r, teardown, err := router.Config(url)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(r.Group(url.Path))
	r.Static("/files", uploadDir)

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}

// seedAdmin creates the initial administrator account when the employee
// table is empty. Credentials can be set with the ADMIN_EMAIL and
// ADMIN_PASSWORD environment variables.
func seedAdmin() error {
	var count int64
	err := models.DB.Model(&models.Employee{}).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email, ok := os.LookupEnv("ADMIN_EMAIL")
	if !ok {
		email = "admin@localhost"
	}

	password, ok := os.LookupEnv("ADMIN_PASSWORD")
	if !ok {
		password = "admin"
		log.Warn().Msg("ADMIN_PASSWORD is not set, using the default password. Change it immediately.")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.Employee{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         policy.RoleAdmin,
		Active:       true,
	}

	err = models.DB.Create(&admin).Error
	if err != nil {
		return err
	}

	log.Info().Str("email", email).Msg("created initial administrator account")
	return nil
}
