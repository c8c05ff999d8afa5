package health

import (
	"context"
	"database/sql"
	"time"
)

// Status is the health payload.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
	Sessions int    `json:"sessions"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB       *sql.DB
	Sessions func() int
	Timeout  time.Duration
}

// NewService constructs a new health service. db may be nil when running on
// in-memory repositories.
func NewService(db *sql.DB, sessions func() int) *Service {
	return &Service{DB: db, Sessions: sessions, Timeout: 2 * time.Second}
}

// Status pings the database and reports open editing sessions.
func (s *Service) Status(ctx context.Context) Status {
	out := Status{OK: true, Database: "memory"}
	if s.Sessions != nil {
		out.Sessions = s.Sessions()
	}
	if s.DB == nil {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		out.OK = false
		out.Database = "down"
		return out
	}
	out.Database = "up"
	return out
}
