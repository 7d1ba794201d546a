package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthStatus struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Services  []ServiceStatus `json:"services"`
}

type ServiceStatus struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type HealthChecker struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	var services []ServiceStatus
	overall := "healthy"

	if h.DB != nil {
		svc := ServiceStatus{Name: "PostgreSQL"}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		sqlDB, err := h.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(pingCtx)
		}
		if err != nil {
			svc.Status = "down"
			svc.Message = err.Error()
			overall = "degraded"
		} else {
			svc.Status = "up"
		}
		services = append(services, svc)
		cancel()
	}

	if h.Redis != nil {
		svc := ServiceStatus{Name: "Redis"}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := h.Redis.Ping(pingCtx).Err(); err != nil {
			svc.Status = "down"
			svc.Message = err.Error()
			overall = "degraded"
		} else {
			svc.Status = "up"
		}
		services = append(services, svc)
		cancel()
	}

	return HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}
