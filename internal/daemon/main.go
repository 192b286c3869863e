package daemon

import (
	sessionmysql "github.com/gofiber/storage/mysql"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/GoMediaVault/GoMediaVault/internal/analysis"
	"github.com/GoMediaVault/GoMediaVault/internal/config"
	"github.com/GoMediaVault/GoMediaVault/internal/db/dsn"
	"github.com/GoMediaVault/GoMediaVault/internal/db/models"
	"github.com/GoMediaVault/GoMediaVault/internal/rolestore"
	"github.com/GoMediaVault/GoMediaVault/internal/web"
	"github.com/GoMediaVault/GoMediaVault/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(":8080")
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg)) // open db with gorm mysql driver

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.UserGroup{},
		&models.GroupMapping{},
		&models.MediaAsset{},
		&models.AccessRequest{},
		&models.Setting{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	// Initialize fiber session store
	sessionStorage := sessionmysql.New(sessionmysql.Config{
		ConnectionURI: dsn.Create(cfg),
		Table:         "sessions",
	})

	session.Init(sessionStorage)

	// Preview roles live next to the sessions, on the same storage backend
	roles := rolestore.New(sessionStorage, cfg.Webserver.Session.ExpiryTime)

	// Initialize the AI gateway client. Missing settings are fine on first
	// start; the client stays unconfigured until settings are saved.
	if err = analysis.Open(db); err != nil {
		log.Warn().Err(err).Msg("AI gateway not configured; analysis is disabled until settings are saved")
	}

	return &Daemon{
		webService: *web.New(cfg, db, roles),
	}
}
