package modeldata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nulzo/model-capability-api/pkg/api"
)

func TestOpenAIModelsHaveSaneLimits(t *testing.T) {
	assert.NotEmpty(t, OpenAIModels)

	for _, m := range OpenAIModels {
		t.Run(m.ModelName, func(t *testing.T) {
			assert.Equal(t, api.ProviderOpenAI, m.Provider)
			assert.NotEmpty(t, m.FriendlyName)
			assert.NotEmpty(t, m.Description)
			assert.Greater(t, m.ContextWindow, 0)
			assert.Greater(t, m.MaxOutputTokens, 0)

			if m.SupportsImages {
				assert.Greater(t, m.MaxImageSizeMB, 0.0)
			}
		})
	}
}

func TestOpenAIModelsTemperatureConstraintMatchesSupport(t *testing.T) {
	for _, m := range OpenAIModels {
		if m.SupportsTemperature {
			assert.Equal(t, api.TemperatureRange, m.Temperature, m.ModelName)
		} else {
			assert.Equal(t, api.TemperatureFixed, m.Temperature, m.ModelName)
		}
	}
}

// Seeding refuses colliding names, so the shipped table must never have
// two records claiming the same canonical name or alias. A record is
// allowed to restate its own canonical name as an alias.
func TestOpenAIModelsNamesDoNotCollide(t *testing.T) {
	canonical := make(map[string]string)
	for _, m := range OpenAIModels {
		key := strings.ToLower(m.ModelName)
		if owner, dup := canonical[key]; dup {
			t.Errorf("canonical name %q claimed by both %q and %q", m.ModelName, owner, m.ModelName)
		}
		canonical[key] = m.ModelName
	}

	aliases := make(map[string]string)
	for _, m := range OpenAIModels {
		for _, alias := range m.Aliases {
			key := strings.ToLower(alias)
			if owner, ok := canonical[key]; ok && owner != m.ModelName {
				t.Errorf("alias %q of %q shadows canonical name %q", alias, m.ModelName, owner)
			}
			if owner, ok := aliases[key]; ok && owner != m.ModelName {
				t.Errorf("alias %q claimed by both %q and %q", alias, owner, m.ModelName)
			}
			aliases[key] = m.ModelName
		}
	}
}
