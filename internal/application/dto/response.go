package dto

import (
	"time"
)

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status     string    `json:"status"`
	Service    string    `json:"service"`
	Domain     string    `json:"domain"`
	CachedKeys int       `json:"cached_keys"`
	Timestamp  time.Time `json:"timestamp"`
}
