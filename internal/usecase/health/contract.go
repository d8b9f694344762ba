package health

import "context"

// CachePinger checks cache store availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// BackendChecker checks directory backend availability.
type BackendChecker interface {
	HealthCheck(ctx context.Context) error
}
