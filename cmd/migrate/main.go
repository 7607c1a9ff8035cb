package main

import (
	"errors"
	"flag"
	"net/url"
	"os"

	"community_hub/internal/pkg/config"
	"community_hub/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "migrations", "migrations directory")
	down := flag.Bool("down", false, "roll back one migration")
	force := flag.Int("force", -1, "force the schema version after a failed migration")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(cfg.App.Env, cfg.App.Debug); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	m, err := migrate.New("file://"+*dir, databaseURL(cfg.Database))
	if err != nil {
		logger.Log.Fatal("create migrator", zap.Error(err))
	}
	defer m.Close()

	switch {
	case *force >= 0:
		// dirty 状态下需要人工确认版本后强制设置
		err = m.Force(*force)
	case *down:
		err = m.Steps(-1)
	default:
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			logger.Log.Fatal("database is dirty, fix it and rerun with -force", zap.Int("version", dirty.Version))
		}
		logger.Log.Fatal("migration failed", zap.Error(err))
	}

	version, isDirty, _ := m.Version()
	logger.Log.Info("migration successful", zap.Uint("version", version), zap.Bool("dirty", isDirty))
}

func databaseURL(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   cfg.Host + ":" + cfg.Port,
		Path:   "/" + cfg.DBName,
	}
	q := u.Query()
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
