package modeldata

import "github.com/nulzo/model-capability-api/pkg/api"

// OpenAIModels is the built-in OpenAI capability table. Order matters: it
// is the seed order of every registry, and listings preserve it. Numbers
// track the published OpenAI limits.
var OpenAIModels = []api.ModelCapabilities{
	{
		Provider:                api.ProviderOpenAI,
		ModelName:               "o3",
		FriendlyName:            "OpenAI (O3)",
		ContextWindow:           200_000,
		MaxOutputTokens:         65536,
		SupportsSystemPrompts:   true,
		SupportsStreaming:       true,
		SupportsFunctionCalling: true,
		SupportsJSONMode:        true,
		SupportsImages:          true,
		MaxImageSizeMB:          20.0, // 20MB per OpenAI docs
		SupportsTemperature:     false,
		Temperature:             api.TemperatureFixed, // O3 models reject the temperature parameter
		Description:             "Strong reasoning (200K context) - Logical problems, code generation, systematic analysis",
	},
	{
		Provider:                api.ProviderOpenAI,
		ModelName:               "o3-mini",
		FriendlyName:            "OpenAI (O3-mini)",
		ContextWindow:           200_000,
		MaxOutputTokens:         65536,
		SupportsSystemPrompts:   true,
		SupportsStreaming:       true,
		SupportsFunctionCalling: true,
		SupportsJSONMode:        true,
		SupportsImages:          true,
		MaxImageSizeMB:          20.0,
		SupportsTemperature:     false,
		Temperature:             api.TemperatureFixed,
		Description:             "Fast O3 variant (200K context) - Balanced performance/speed, moderate complexity",
		Aliases:                 []string{"o3mini", "o3-mini"},
	},
	{
		Provider:                api.ProviderOpenAI,
		ModelName:               "o3-pro-2025-06-10",
		FriendlyName:            "OpenAI (O3-Pro)",
		ContextWindow:           200_000,
		MaxOutputTokens:         65536,
		SupportsSystemPrompts:   true,
		SupportsStreaming:       true,
		SupportsFunctionCalling: true,
		SupportsJSONMode:        true,
		SupportsImages:          true,
		MaxImageSizeMB:          20.0,
		SupportsTemperature:     false,
		Temperature:             api.TemperatureFixed,
		Description:             "Professional-grade reasoning (200K context) - EXTREMELY EXPENSIVE: Only for the most complex problems requiring universe-scale complexity analysis OR when the user explicitly asks for this model. Use sparingly for critical architectural decisions or exceptionally complex debugging that other models cannot handle.",
		Aliases:                 []string{"o3-pro"},
	},
	{
		Provider:                api.ProviderOpenAI,
		ModelName:               "o4-mini",
		FriendlyName:            "OpenAI (O4-mini)",
		ContextWindow:           200_000,
		MaxOutputTokens:         65536,
		SupportsSystemPrompts:   true,
		SupportsStreaming:       true,
		SupportsFunctionCalling: true,
		SupportsJSONMode:        true,
		SupportsImages:          true,
		MaxImageSizeMB:          20.0,
		SupportsTemperature:     false,
		Temperature:             api.TemperatureFixed,
		Description:             "Latest reasoning model (200K context) - Optimized for shorter contexts, rapid reasoning",
		Aliases:                 []string{"mini", "o4mini", "o4-mini"},
	},
	{
		Provider:                api.ProviderOpenAI,
		ModelName:               "gpt-4.1-2025-04-14",
		FriendlyName:            "OpenAI (GPT 4.1)",
		ContextWindow:           1_000_000,
		MaxOutputTokens:         32_768,
		SupportsSystemPrompts:   true,
		SupportsStreaming:       true,
		SupportsFunctionCalling: true,
		SupportsJSONMode:        true,
		SupportsImages:          true,
		MaxImageSizeMB:          20.0,
		SupportsTemperature:     true,
		Temperature:             api.TemperatureRange,
		Description:             "GPT-4.1 (1M context) - Advanced reasoning model with large context window",
		Aliases:                 []string{"gpt4.1"},
	},
}
