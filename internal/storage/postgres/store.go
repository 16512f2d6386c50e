// Package postgres хранит каталог товаров и заказы в PostgreSQL.
// Используется drivers-вариант pgx поверх database/sql, чтобы
// репозитории работали с привычным *sql.DB.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Админка обслуживает считанных операторов, поэтому пул маленький:
// шестнадцати соединений хватает с запасом, а короткий пинг быстро
// сигнализирует о недоступной базе при старте.
const (
	pingTimeout     = 3 * time.Second
	poolMaxConns    = 16
	poolMaxIdle     = 8
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 10 * time.Minute
)

// Store владеет подключением к PostgreSQL и раздаёт его репозиториям.
type Store struct {
	db *sql.DB
}

// Open открывает пул соединений по DSN и убеждается, что база отвечает.
// Нерабочее подключение закрывается сразу, а не живёт до первого запроса.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(poolMaxConns)
	db.SetMaxIdleConns(poolMaxIdle)
	db.SetConnMaxLifetime(connMaxLifetime)
	db.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Store{db: db}, nil
}

// DB отдаёт пул репозиториям товаров и заказов.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping сообщает о доступности базы; используется health-эндпоинтом.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("postgres store is not initialized")
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(pingCtx)
}

// Close закрывает пул. Безопасен для нулевого Store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
