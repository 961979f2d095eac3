// Package setup keeps the store-level feature state (schema pushed, manual
// pricing enabled) consistent before quote operations run. Every repair is
// best-effort: a failed push is recorded as a false flag, never an error.
package setup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/luisaguirre/cartquotes-backend/pkg/config"
	"github.com/luisaguirre/cartquotes-backend/pkg/db/models"
	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
	"github.com/luisaguirre/cartquotes-backend/pkg/logger"
	pkgredis "github.com/luisaguirre/cartquotes-backend/pkg/redis"
)

const cacheScope = "config"

// Settings is the setup state exposed to the storefront.
type Settings struct {
	HasSchema        bool   `json:"hasSchema"`
	SchemaVersion    string `json:"schemaVersion"`
	AllowManualPrice bool   `json:"allowManualPrice"`
	CartLifeSpan     int    `json:"cartLifeSpan"`
	StoreLogoURL     string `json:"storeLogoUrl"`
}

// SchemaEnsurer pushes the quote schema into the entity store.
type SchemaEnsurer interface {
	Ensure(ctx context.Context) error
}

// CheckoutConfigurator is the slice of the commerce client used to flip the
// store's manual-price flag.
type CheckoutConfigurator interface {
	GetCheckoutConfig(ctx context.Context) (map[string]any, error)
	UpdateCheckoutConfig(ctx context.Context, cfg map[string]any) error
}

// Service is the setup/schema guard.
type Service interface {
	GetSetupConfig(ctx context.Context) (Settings, error)
}

type service struct {
	repo     SettingsRepository
	cache    pkgredis.SettingsCache
	ensurer  SchemaEnsurer
	checkout CheckoutConfigurator
	cfg      config.QuotesConfig
	logg     *logger.Logger
}

// NewService builds the guard. cache may be nil; the guard then hits the
// store on every call.
func NewService(repo SettingsRepository, cache pkgredis.SettingsCache, ensurer SchemaEnsurer, checkout CheckoutConfigurator, cfg config.QuotesConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if ensurer == nil {
		return nil, fmt.Errorf("schema ensurer required")
	}
	if checkout == nil {
		return nil, fmt.Errorf("checkout configurator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		cache:    cache,
		ensurer:  ensurer,
		checkout: checkout,
		cfg:      cfg,
		logg:     logg,
	}, nil
}

// GetSetupConfig returns the current setup state, repairing whatever it can
// on the way. When nothing needs repair the call performs zero writes.
func (s *service) GetSetupConfig(ctx context.Context) (Settings, error) {
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}

	row, err := s.repo.Get(ctx)
	if err != nil {
		return Settings{}, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load app settings")
	}

	changed := s.seedDefaults(row)
	changed = s.ensureSchema(ctx, row) || changed
	changed = s.ensureManualPrice(ctx, row) || changed

	if changed {
		if _, err := s.repo.Save(ctx, row); err != nil {
			s.logg.Error(ctx, "persisting app settings failed", err)
		}
	}

	settings := fromModel(row)
	s.toCache(ctx, settings)
	return settings, nil
}

// seedDefaults fills config-driven fields the row has never carried.
func (s *service) seedDefaults(row *models.AppSettings) bool {
	changed := false
	if row.CartLifeSpan <= 0 {
		row.CartLifeSpan = s.cfg.CartLifeSpanDays
		changed = true
	}
	if row.StoreLogoURL == "" && s.cfg.StoreLogoURL != "" {
		row.StoreLogoURL = s.cfg.StoreLogoURL
		changed = true
	}
	return changed
}

// ensureSchema pushes the schema when it is missing or stale. Failure flips
// hasSchema to false and is swallowed.
func (s *service) ensureSchema(ctx context.Context, row *models.AppSettings) bool {
	if row.HasSchema && row.SchemaVersion == s.cfg.SchemaVersion {
		return false
	}

	if err := s.ensurer.Ensure(ctx); err != nil {
		s.logg.Error(ctx, "schema push failed", err)
		if !row.HasSchema {
			return false
		}
		row.HasSchema = false
		return true
	}

	row.HasSchema = true
	row.SchemaVersion = s.cfg.SchemaVersion
	return true
}

// ensureManualPrice enables the engine's manual-price flag once. Failure is
// swallowed and retried on a later call.
func (s *service) ensureManualPrice(ctx context.Context, row *models.AppSettings) bool {
	if row.AllowManualPrice {
		return false
	}

	engineCfg, err := s.checkout.GetCheckoutConfig(ctx)
	if err != nil {
		s.logg.Error(ctx, "reading checkout config failed", err)
		return false
	}

	if enabled, _ := engineCfg["allowManualPrice"].(bool); !enabled {
		engineCfg["allowManualPrice"] = true
		if err := s.checkout.UpdateCheckoutConfig(ctx, engineCfg); err != nil {
			s.logg.Error(ctx, "enabling manual price failed", err)
			return false
		}
	}

	row.AllowManualPrice = true
	return true
}

func (s *service) fromCache(ctx context.Context) (Settings, bool) {
	if s.cache == nil {
		return Settings{}, false
	}
	raw, err := s.cache.Get(ctx, s.cache.SetupKey(cacheScope))
	if err != nil {
		return Settings{}, false
	}
	var settings Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return Settings{}, false
	}
	return settings, true
}

func (s *service) toCache(ctx context.Context, settings Settings) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.SetupKey(cacheScope), string(payload), s.cfg.SetupCacheTTL); err != nil {
		s.logg.Warn(ctx, "caching setup config failed: "+err.Error())
	}
}

func fromModel(row *models.AppSettings) Settings {
	return Settings{
		HasSchema:        row.HasSchema,
		SchemaVersion:    row.SchemaVersion,
		AllowManualPrice: row.AllowManualPrice,
		CartLifeSpan:     row.CartLifeSpan,
		StoreLogoURL:     row.StoreLogoURL,
	}
}
