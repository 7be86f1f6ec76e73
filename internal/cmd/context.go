package cmd

import (
	"context"

	"github.com/jmgilman/bookworm/internal/catalog"
	"github.com/jmgilman/bookworm/internal/config"
	"github.com/jmgilman/bookworm/internal/prompt"
)

type contextKey string

const (
	configKey   contextKey = "config"
	loaderKey   contextKey = "loader"
	catalogKey  contextKey = "catalog"
	prompterKey contextKey = "prompter"
)

// WithConfig adds the config to the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// ConfigFromContext retrieves the config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}

// WithLoader adds the config loader to the context.
func WithLoader(ctx context.Context, loader *config.Loader) context.Context {
	return context.WithValue(ctx, loaderKey, loader)
}

// LoaderFromContext retrieves the config loader from context.
func LoaderFromContext(ctx context.Context) *config.Loader {
	loader, ok := ctx.Value(loaderKey).(*config.Loader)
	if !ok {
		return nil
	}
	return loader
}

// WithCatalog adds the catalog controller to the context.
func WithCatalog(ctx context.Context, ctrl *catalog.Controller) context.Context {
	return context.WithValue(ctx, catalogKey, ctrl)
}

// CatalogFromContext retrieves the catalog controller from context.
func CatalogFromContext(ctx context.Context) *catalog.Controller {
	ctrl, ok := ctx.Value(catalogKey).(*catalog.Controller)
	if !ok {
		return nil
	}
	return ctrl
}

// WithPrompter adds the prompter to the context.
func WithPrompter(ctx context.Context, p prompt.Prompter) context.Context {
	return context.WithValue(ctx, prompterKey, p)
}

// PrompterFromContext retrieves the prompter from context, falling back to
// an interactive huh prompter.
func PrompterFromContext(ctx context.Context) prompt.Prompter {
	p, ok := ctx.Value(prompterKey).(prompt.Prompter)
	if !ok || p == nil {
		return prompt.New()
	}
	return p
}
