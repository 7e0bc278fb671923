package mariadb

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/labstack/gommon/log"

	"github.com/c14220110/clinic-appointments/config"
)

// Connect opens the MariaDB pool. Credentials come from the DB_* settings;
// timestamps are exchanged in UTC.
func Connect(cfg *config.Config) (*sql.DB, error) {
	port := cfg.DBPort
	if port == "" {
		port = "3306"
	}

	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPassword
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, port)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	mc.Loc = time.UTC

	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("mariadb config: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mariadb ping: %w", err)
	}

	log.Infof("connected to MariaDB at %s/%s", mc.Addr, mc.DBName)
	return db, nil
}
