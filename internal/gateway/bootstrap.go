package gateway

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/internal/cli"
	"github.com/nulzo/model-capability-api/internal/config"
	"github.com/nulzo/model-capability-api/internal/provider"
	"github.com/nulzo/model-capability-api/internal/restriction"
	"github.com/nulzo/model-capability-api/pkg/api"
)

// BootstrapProviders constructs and registers every enabled provider from
// configuration. A missing API key only warns: capability lookups work
// without one, generation will fail upstream.
func BootstrapProviders(service Service, providers []config.ProviderConfig, log *zap.Logger) int {
	registered := 0

	for _, pCfg := range providers {
		if !pCfg.Enabled {
			continue
		}

		kind := api.ProviderKind(strings.ToLower(strings.TrimSpace(pCfg.Kind)))

		factory, err := provider.Get(kind)
		if err != nil {
			log.Error("Unknown provider kind", zap.String("kind", pCfg.Kind))
			continue
		}

		policy := restriction.New(map[api.ProviderKind]restriction.Rules{
			kind: {
				Allowed: restriction.ParseList(pCfg.AllowedModels),
				Denied:  restriction.ParseList(pCfg.DeniedModels),
			},
		}, restriction.WithDenialHandler(&restriction.ZapDenialHandler{Log: log}))

		p, err := factory(provider.Config{
			Kind:         kind,
			APIKey:       pCfg.APIKey,
			BaseURL:      pCfg.BaseURL,
			CustomModels: pCfg.CustomModels,
			Policy:       policy,
			Log:          log.With(zap.String("provider", string(kind))),
		})
		if err != nil {
			log.Error("Failed to initialize provider", zap.String("kind", string(kind)), zap.Error(err))
			continue
		}

		if pCfg.APIKey == "" {
			log.Warn(fmt.Sprintf("%s %s",
				cli.Arrow(),
				cli.Style("no API key configured; capability lookups only", cli.Yellow),
			), zap.String("kind", string(kind)))
		}

		service.RegisterProvider(p)
		log.Info(fmt.Sprintf("%s %s", cli.CheckMark(), cli.Style("provider registered", cli.Green)),
			zap.String("kind", string(kind)),
			zap.Int("models", len(p.ListCapabilities())),
		)
		registered++
	}

	if registered == 0 {
		log.Warn("No providers were registered. API will not function correctly.")
	}

	return registered
}
