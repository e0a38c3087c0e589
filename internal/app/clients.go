package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/akdamba/portal-backend/internal/pkg/logger"
	"github.com/akdamba/portal-backend/internal/platform/avlerinfo"
	"github.com/akdamba/portal-backend/internal/platform/sanity"
	"github.com/akdamba/portal-backend/internal/platform/sendgrid"
)

type Clients struct {
	Identity avlerinfo.Client
	CMS      sanity.Client
	Email    sendgrid.Client
	Cache    *redis.Client
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Identity and CMS are the backbone; without them the service cannot
	// do its job, so these fail the boot.
	identity, err := avlerinfo.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init avlerinfo client: %w", err)
	}
	cms, err := sanity.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init sanity client: %w", err)
	}

	// Email is only needed by the callback feature.
	var email sendgrid.Client
	if strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")) != "" {
		email, err = sendgrid.NewFromEnv(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init sendgrid client: %w", err)
		}
	} else {
		log.Warn("SENDGRID_API_KEY not set; callback requests will fail")
	}

	// Redis keeps rendered content warm. Optional.
	var cache *redis.Client
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		cache = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	}

	return Clients{
		Identity: identity,
		CMS:      cms,
		Email:    email,
		Cache:    cache,
	}, nil
}
