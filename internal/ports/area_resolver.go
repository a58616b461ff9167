package ports

import (
	"context"
	"location-tracker-service/internal/domain"
)

// Contract for turning coordinates into a human-readable area name.
type AreaResolver interface {
	ResolveAreaName(ctx context.Context, c domain.Coordinates, apiKey string) (string, error)
}
