package main

import (
	"github.com/turtacn/PatentBot-AI/internal/bootstrap"
	"github.com/turtacn/PatentBot-AI/internal/interfaces/http/handlers"
)

// healthCheckers exposes every connected backend to the readiness probe.
func healthCheckers(infra *bootstrap.Infrastructure) []handlers.HealthChecker {
	checks := []handlers.HealthChecker{
		handlers.NamedCheck("postgres", infra.Postgres.HealthCheck),
	}
	if infra.Redis != nil {
		checks = append(checks, handlers.NamedCheck("redis", infra.Redis.Ping))
	}
	if infra.MinIO != nil {
		checks = append(checks, handlers.NamedCheck("minio", infra.MinIO.HealthCheck))
	}
	return checks
}
