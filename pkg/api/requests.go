package api

// GenerationRequest is the public generation surface. The model may be
// named by its canonical name or by any known alias; resolution happens
// inside the owning provider before anything reaches the upstream.
type GenerationRequest struct {
	// the model to generate with, canonical name or alias
	Model string `json:"model" binding:"required"`

	// user prompt, required
	Prompt string `json:"prompt" binding:"required"`

	// optional system prompt, folded into the message list only when the
	// resolved model supports system prompts
	SystemPrompt string `json:"system_prompt,omitempty"`

	// LLM parameters. Temperature is a pointer so "not set" survives
	// binding; it is dropped for fixed-temperature models.
	Temperature     *float64 `json:"temperature,omitempty" binding:"omitempty,gte=0,lte=2"`
	MaxOutputTokens int      `json:"max_output_tokens,omitempty" binding:"omitempty,gt=0"`

	// force strict JSON output on models that support it
	JSONMode bool `json:"json_mode,omitempty"`
}

// CompletionRequest is the upstream chat-completions wire shape.
type CompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat forces the model to produce a specific output format.
type ResponseFormat struct {
	Type string `json:"type"` // "json_object"
}

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
	System    Role = "system"
)
