package tms

import (
	"context"
	"fmt"

	"github.com/socovidiu/loc-solutions-backend/internal/config"
)

// Client is the outbound gateway to a translation management system. CreateJob
// submits content for translation and returns the provider's job id.
type Client interface {
	Provider() string
	CreateJob(ctx context.Context, projectID, sourceLocale string, targetLocales []string, content map[string]any) (string, error)
}

// New selects the provider implementation named by the configuration.
func New(cfg *config.Config) (Client, error) {
	switch cfg.TMS.Provider {
	case "phrase":
		return NewPhraseClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown TMS provider %q", cfg.TMS.Provider)
	}
}
