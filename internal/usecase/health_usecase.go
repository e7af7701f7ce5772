package usecase

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database"`
}

// Healthy reports whether every dependency answered.
func (h HealthStatus) Healthy() bool {
	return h.Status == "OK"
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
}

type healthUsecase struct {
	db      Pinger
	timeout time.Duration
}

func NewHealthUsecase(db Pinger) HealthUsecase {
	return &healthUsecase{db: db, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Database:  "connected",
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.db.Ping(ctx); err != nil {
		status.Status = "DEGRADED"
		status.Database = "unreachable"
	}
	return status
}
