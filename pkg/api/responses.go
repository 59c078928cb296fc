package api

// ChatResponse is the upstream chat-completions wire response.
type ChatResponse struct {
	ID      string         `json:"id"`
	Choices []Choice       `json:"choices"`
	Created int64          `json:"created"`
	Model   string         `json:"model"`
	Object  string         `json:"object"` // "chat.completion"
	Usage   *ResponseUsage `json:"usage,omitempty"`

	Error *ErrorResponse `json:"error,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

type Choice struct {
	Index        int          `json:"index"`
	Message      *ChatMessage `json:"message,omitempty"`
	FinishReason string       `json:"finish_reason"`
}

// ResponseUsage is the upstream token count block, passed through to the
// caller untouched. Nothing in this service does accounting with it.
type ResponseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ErrorResponse struct {
	Code    interface{} `json:"code,omitempty"`
	Message string      `json:"message"`
	Type    string      `json:"type,omitempty"`
	Param   string      `json:"param,omitempty"`
}

// ModelResponse is what the facade returns for a generation: the upstream
// content plus the capability-side identity of the model that served it.
type ModelResponse struct {
	Content      string         `json:"content"`
	Model        string         `json:"model"`
	FriendlyName string         `json:"friendly_name,omitempty"`
	FinishReason string         `json:"finish_reason,omitempty"`
	Usage        *ResponseUsage `json:"usage,omitempty"`
}

// ModelListResponse is the upstream GET /models wire shape.
type ModelListResponse struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}

type ModelInfo struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	OwnedBy string `json:"owned_by"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string   `json:"status"`
	Version   string   `json:"version"`
	Uptime    string   `json:"uptime"`
	Providers []string `json:"providers,omitempty"`
}
