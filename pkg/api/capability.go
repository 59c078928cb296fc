package api

// ProviderKind identifies a family of upstream endpoints that share one
// API surface and one model namespace.
type ProviderKind string

const (
	ProviderOpenAI ProviderKind = "openai"
)

// Label is the human form of the kind, used in generated friendly names
// and descriptions.
func (k ProviderKind) Label() string {
	switch k {
	case ProviderOpenAI:
		return "OpenAI"
	default:
		return string(k)
	}
}

// TemperatureConstraint describes how a model treats the temperature parameter.
type TemperatureConstraint string

const (
	// TemperatureFixed pins generation to the provider default.
	// Reasoning models reject explicit temperature values.
	TemperatureFixed TemperatureConstraint = "fixed"

	// TemperatureRange accepts the provider's full temperature range.
	TemperatureRange TemperatureConstraint = "range"
)

// ModelCapabilities describes the limits and feature support of a single
// model. A record is built exactly once, at seed time or when the custom
// configuration blob is loaded, and is never mutated afterwards. Replacing
// a model means inserting a whole new record under the same canonical name.
type ModelCapabilities struct {
	Provider     ProviderKind `json:"provider"`
	ModelName    string       `json:"model_name"`
	FriendlyName string       `json:"friendly_name"`

	// ContextWindow is the total token capacity, always positive.
	ContextWindow int `json:"context_window"`
	// MaxOutputTokens bounds a single generation.
	MaxOutputTokens int `json:"max_output_tokens"`

	SupportsExtendedThinking bool `json:"supports_extended_thinking"`
	SupportsSystemPrompts    bool `json:"supports_system_prompts"`
	SupportsStreaming        bool `json:"supports_streaming"`
	SupportsFunctionCalling  bool `json:"supports_function_calling"`
	SupportsJSONMode         bool `json:"supports_json_mode"`

	SupportsImages bool    `json:"supports_images"`
	MaxImageSizeMB float64 `json:"max_image_size_mb"`

	// SupportsTemperature and Temperature travel together: a record never
	// claims temperature support while carrying a fixed constraint.
	SupportsTemperature bool                  `json:"supports_temperature"`
	Temperature         TemperatureConstraint `json:"temperature_constraint"`

	// Aliases are alternate names accepted anywhere a model name is.
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description,omitempty"`
}

// CustomModelConfig is the schema for one entry of the custom-models
// configuration blob (the OPENAI_CUSTOM_MODELS value). Optional fields are
// pointers so absence is distinguishable from a zero value; context_window
// is the only required field.
type CustomModelConfig struct {
	ContextWindow            int      `json:"context_window" validate:"required,gt=0"`
	MaxOutputTokens          *int     `json:"max_output_tokens,omitempty" validate:"omitempty,gt=0"`
	SupportsExtendedThinking *bool    `json:"supports_extended_thinking,omitempty"`
	SupportsSystemPrompts    *bool    `json:"supports_system_prompts,omitempty"`
	SupportsStreaming        *bool    `json:"supports_streaming,omitempty"`
	SupportsFunctionCalling  *bool    `json:"supports_function_calling,omitempty"`
	SupportsJSONMode         *bool    `json:"supports_json_mode,omitempty"`
	SupportsImages           *bool    `json:"supports_images,omitempty"`
	MaxImageSizeMB           *float64 `json:"max_image_size_mb,omitempty" validate:"omitempty,gt=0"`
	SupportsTemperature      *bool    `json:"supports_temperature,omitempty"`
	Description              string   `json:"description,omitempty"`
	Aliases                  []string `json:"aliases,omitempty" validate:"dive,required"`
}

// ModelSummary is one row of the model listing endpoint.
type ModelSummary struct {
	Model           string       `json:"model"`
	FriendlyName    string       `json:"friendly_name"`
	Provider        ProviderKind `json:"provider"`
	ContextWindow   int          `json:"context_window"`
	MaxOutputTokens int          `json:"max_output_tokens"`
	Aliases         []string     `json:"aliases,omitempty"`
}

// ValidateResult is the response of the name validation endpoint.
type ValidateResult struct {
	Model    string       `json:"model"`
	Valid    bool         `json:"valid"`
	Provider ProviderKind `json:"provider,omitempty"`
}

// VerifyResult reports whether a locally registered model also appears in
// the provider's live model listing. Verification is advisory only and
// never changes registry contents.
type VerifyResult struct {
	Model     string       `json:"model"`
	Canonical string       `json:"canonical"`
	Provider  ProviderKind `json:"provider"`
	Upstream  bool         `json:"upstream"`
	Cached    bool         `json:"cached"`
}
