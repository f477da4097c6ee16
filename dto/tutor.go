package dto

// ==================== TUTOR REQUEST DTOs ====================

type ChatRequest struct {
	Message string `json:"message" validate:"required" example:"Wie sagt man 'library' auf Deutsch?"`
}

func (c ChatRequest) Validate() error {
	return GetValidator().Struct(c)
}

type PracticeRequest struct {
	Text string `json:"text" validate:"required" example:"Ich habe gestern ins Kino gegangt."`
}

func (p PracticeRequest) Validate() error {
	return GetValidator().Struct(p)
}

type CallRequest struct {
	Messages []ProviderMessage `json:"messages" validate:"required,min=1,dive"`
}

func (c CallRequest) Validate() error {
	return GetValidator().Struct(c)
}

// ==================== PROVIDER WIRE DTOs ====================

// ProviderMessage is one role-tagged turn in a chat-completion exchange.
type ProviderMessage struct {
	Role    string `json:"role" validate:"required,oneof=system user assistant"`
	Content string `json:"content" validate:"required"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type ChatCompletionRequest struct {
	Model          string            `json:"model"`
	Messages       []ProviderMessage `json:"messages"`
	ResponseFormat *ResponseFormat   `json:"response_format,omitempty"`
}

// ChatCompletionResponse mirrors the provider payload. The provider is
// untrusted: every field is optional on the wire.
type ChatCompletionResponse struct {
	ID      string `json:"id,omitempty"`
	Model   string `json:"model,omitempty"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code,omitempty"`
	} `json:"error,omitempty"`
}

// FirstChoice returns the first reply content, if any.
func (r *ChatCompletionResponse) FirstChoice() (string, bool) {
	if len(r.Choices) == 0 {
		return "", false
	}
	return r.Choices[0].Message.Content, true
}

// ==================== TUTOR RESPONSE DTOs ====================

type TutorReplyResponse struct {
	Reply    string                  `json:"reply"`
	XPGained int                     `json:"xp_gained"`
	Provider *ChatCompletionResponse `json:"provider"`
}

type PracticeCorrection struct {
	Original    string `json:"original"`
	Correction  string `json:"correction"`
	Explanation string `json:"explanation"`
	Type        string `json:"type"` // grammar, spelling or style
}

type PracticeAnalysis struct {
	Score           int                  `json:"score"`
	VocabLevel      string               `json:"vocab_level"`
	AnalysisSummary string               `json:"analysis_summary"`
	Corrections     []PracticeCorrection `json:"corrections"`
}

type PracticeResponse struct {
	// Analysis is nil when the provider ignored the requested structure;
	// the raw payload is still returned so the caller degrades gracefully.
	Analysis *PracticeAnalysis       `json:"analysis,omitempty"`
	XPGained int                     `json:"xp_gained"`
	Provider *ChatCompletionResponse `json:"provider"`
}
