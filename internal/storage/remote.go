package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"sync"

	"care-daily/internal/config"
	"care-daily/internal/model"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// remoteClient holds the lazily-opened connection to the remote
// relational store. Dialing happens on first use and is retried on the
// next call after a failure; the remote store serializes its own
// writes, so no local locking is layered on top.
type remoteClient struct {
	cfg config.RemoteConfig
	mu  sync.Mutex
	db  *gorm.DB
}

func newRemoteClient(cfg config.RemoteConfig) *remoteClient {
	return &remoteClient{cfg: cfg}
}

func (c *remoteClient) conn() (*gorm.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		return c.db, nil
	}
	db, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	c.db = db
	return db, nil
}

func (c *remoteClient) dial() (*gorm.DB, error) {
	addr, dbname, user, pass, err := c.cfg.Split()
	if err != nil {
		return nil, err
	}

	mc := gomysql.NewConfig()
	mc.User = user
	mc.Passwd = pass
	mc.Net = "tcp"
	mc.Addr = addr
	mc.DBName = dbname
	mc.ParseTime = true
	mc.Timeout = c.cfg.Timeout()
	mc.ReadTimeout = c.cfg.Timeout()
	mc.WriteTimeout = c.cfg.Timeout()

	connector, err := gomysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("create connector: %w", err)
	}
	sqlDB := sql.OpenDB(connector)
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping remote db: %w", err)
	}

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.DailyReport{},
		&model.StaffAccount{},
		&model.MorningMeeting{},
		&model.Tag{},
		&model.DailyUserRecord{},
	); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate remote schema: %w", err)
	}
	return db, nil
}

// op returns a session bound to a bounded-timeout context so a stalled
// remote call fails as unavailable instead of hanging.
func (c *remoteClient) op(ctx context.Context) (*gorm.DB, context.CancelFunc, error) {
	db, err := c.conn()
	if err != nil {
		return nil, nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout())
	return db.WithContext(ctx), cancel, nil
}

const mysqlErrDuplicateEntry = 1062

func wrapRemote(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var me *gomysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
		return &model.ValidationError{Field: "unique", Reason: "duplicate record"}
	}
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || errors.As(err, &ne) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
