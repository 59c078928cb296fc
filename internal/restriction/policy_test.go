package restriction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nulzo/model-capability-api/internal/restriction"
	"github.com/nulzo/model-capability-api/pkg/api"
)

type recordingHandler struct {
	denials []string
}

func (h *recordingHandler) OnDenial(kind api.ProviderKind, model, reason string) {
	h.denials = append(h.denials, model+": "+reason)
}

func TestEmptyPolicyAllowsEverything(t *testing.T) {
	p := restriction.AllowAll()

	assert.True(t, p.IsAllowed(api.ProviderOpenAI, "o3-mini", "o3mini"))
	assert.True(t, p.IsAllowed(api.ProviderOpenAI, "anything", "anything"))
}

func TestAllowList(t *testing.T) {
	p := restriction.New(map[api.ProviderKind]restriction.Rules{
		api.ProviderOpenAI: {Allowed: []string{"o3-mini", "o4-mini"}},
	})

	tests := []struct {
		name      string
		canonical string
		original  string
		want      bool
	}{
		{"listed canonical", "o3-mini", "o3-mini", true},
		{"listed canonical via alias", "o3-mini", "o3mini", true},
		{"case-insensitive", "o3-mini", "O3-MINI", true},
		{"whitespace tolerated", "o3-mini", "  o3-mini  ", true},
		{"unlisted model", "o3", "o3", false},
		{"unlisted via alias", "gpt-4.1-2025-04-14", "gpt4.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.IsAllowed(api.ProviderOpenAI, tt.canonical, tt.original))
		})
	}
}

// An allow list may be written in terms of aliases; a caller using that
// alias is admitted because the original form is matched too.
func TestAllowListMatchesOriginalName(t *testing.T) {
	p := restriction.New(map[api.ProviderKind]restriction.Rules{
		api.ProviderOpenAI: {Allowed: []string{"mini"}},
	})

	assert.True(t, p.IsAllowed(api.ProviderOpenAI, "o4-mini", "mini"))
	assert.True(t, p.IsAllowed(api.ProviderOpenAI, "o4-mini", "MINI"))
	// asking by canonical name does not match the alias-only allow list
	assert.False(t, p.IsAllowed(api.ProviderOpenAI, "o4-mini", "o4-mini"))
}

func TestDenyOverridesAllow(t *testing.T) {
	h := &recordingHandler{}
	p := restriction.New(map[api.ProviderKind]restriction.Rules{
		api.ProviderOpenAI: {
			Allowed: []string{"o3-mini", "o4-mini"},
			Denied:  []string{"o4-mini"},
		},
	}, restriction.WithDenialHandler(h))

	assert.True(t, p.IsAllowed(api.ProviderOpenAI, "o3-mini", "o3-mini"))
	assert.False(t, p.IsAllowed(api.ProviderOpenAI, "o4-mini", "o4-mini"))
	assert.False(t, p.IsAllowed(api.ProviderOpenAI, "o4-mini", "mini"))

	assert.Len(t, h.denials, 2)
	assert.Contains(t, h.denials[0], "deny list")
}

func TestDenyListAloneAdmitsTheRest(t *testing.T) {
	p := restriction.New(map[api.ProviderKind]restriction.Rules{
		api.ProviderOpenAI: {Denied: []string{"o3-pro-2025-06-10"}},
	})

	assert.False(t, p.IsAllowed(api.ProviderOpenAI, "o3-pro-2025-06-10", "o3-pro"))
	assert.True(t, p.IsAllowed(api.ProviderOpenAI, "o3", "o3"))
	assert.True(t, p.IsAllowed(api.ProviderOpenAI, "o3-mini", "o3mini"))
}

func TestRulesAreScopedPerKind(t *testing.T) {
	p := restriction.New(map[api.ProviderKind]restriction.Rules{
		api.ProviderOpenAI: {Allowed: []string{"o3-mini"}},
	})

	// a kind without rules is unrestricted
	other := api.ProviderKind("azure")
	assert.True(t, p.IsAllowed(other, "o3", "o3"))
	assert.False(t, p.IsAllowed(api.ProviderOpenAI, "o3", "o3"))
}

func TestDenialHandlerSeesOriginalName(t *testing.T) {
	h := &recordingHandler{}
	p := restriction.New(map[api.ProviderKind]restriction.Rules{
		api.ProviderOpenAI: {Allowed: []string{"o3"}},
	}, restriction.WithDenialHandler(h))

	p.IsAllowed(api.ProviderOpenAI, "o4-mini", "mini")

	assert.Len(t, h.denials, 1)
	assert.Contains(t, h.denials[0], "mini:")
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"o3-mini", []string{"o3-mini"}},
		{"o3-mini,o4-mini", []string{"o3-mini", "o4-mini"}},
		{" o3-mini , o4-mini ,", []string{"o3-mini", "o4-mini"}},
		{",,", nil},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, restriction.ParseList(tt.in), "input %q", tt.in)
	}
}
