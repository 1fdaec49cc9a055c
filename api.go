package handler

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"

	"brevosync/internal/api"
	"brevosync/internal/config"
	"brevosync/internal/database"
	"brevosync/internal/events"
	"brevosync/internal/logger"
)

// Serverless entry point. The router is built once per instance and reused
// across invocations.
var (
	initOnce sync.Once
	initErr  error
	router   *gin.Engine
)

func initApp() {
	cfg, err := config.Load()
	if err != nil {
		initErr = fmt.Errorf("failed to load configuration: %w", err)
		return
	}

	// Fail fast on an unreachable database before gorm gets involved
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" && !strings.HasPrefix(databaseURL, "sqlite://") {
		probe, err := sql.Open("postgres", databaseURL)
		if err == nil {
			err = probe.Ping()
			probe.Close()
		}
		if err != nil {
			initErr = fmt.Errorf("database unreachable: %w", err)
			return
		}
	}

	log := logger.New(cfg.LogLevel)

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		initErr = fmt.Errorf("failed to connect to database: %w", err)
		return
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log)

	server := api.New(cfg, log, db, publisher)
	router = server.GetRouter()
}

// Handler is the Vercel entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initOnce.Do(initApp)
	if initErr != nil {
		http.Error(w, initErr.Error(), http.StatusInternalServerError)
		return
	}
	router.ServeHTTP(w, r)
}
