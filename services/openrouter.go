package services

import (
	"bytes"
	goctx "context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/shared"
)

// OpenRouterService is the single egress point to the chat-completion
// provider. Callers hand it a full message transcript; it never stores
// conversation state.
type OpenRouterService struct {
	context.DefaultService

	monitoringSvc *MonitoringService

	apiKey  string
	baseURL string
	model   string
	referer string
	title   string

	client *http.Client
}

const OPENROUTER_SVC = "openrouter_svc"

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel   = "openai/gpt-3.5-turbo"
	providerTimeout          = 30 * time.Second
)

func (svc OpenRouterService) Id() string {
	return OPENROUTER_SVC
}

func (svc *OpenRouterService) Configure(ctx *context.Context) error {
	svc.apiKey = os.Getenv("OPENROUTER_API_KEY")
	svc.baseURL = os.Getenv("OPENROUTER_BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = defaultOpenRouterBaseURL
	}
	svc.model = os.Getenv("OPENROUTER_MODEL")
	if svc.model == "" {
		svc.model = defaultOpenRouterModel
	}
	svc.referer = os.Getenv("OPENROUTER_REFERER")
	if svc.referer == "" {
		svc.referer = "https://deutschai.app"
	}
	svc.title = "DeutschAI"

	svc.client = &http.Client{Timeout: providerTimeout}

	return svc.DefaultService.Configure(ctx)
}

func (svc *OpenRouterService) Start() error {
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	if svc.apiKey == "" {
		return errors.New("OPENROUTER_API_KEY is not set")
	}
	return nil
}

// Model returns the configured provider model identifier.
func (svc *OpenRouterService) Model() string {
	return svc.model
}

// ChatCompletion sends the transcript to the provider. jsonMode asks the
// provider for a json_object response body; the caller still has to
// treat the content as untrusted.
func (svc *OpenRouterService) ChatCompletion(ctx goctx.Context, messages []dto.ProviderMessage, jsonMode bool) (*dto.ChatCompletionResponse, error) {
	reqBody := dto.ChatCompletionRequest{
		Model:    svc.model,
		Messages: messages,
	}
	if jsonMode {
		reqBody.ResponseFormat = &dto.ResponseFormat{Type: "json_object"}
	}

	payload, err := shared.JSONAPI.Marshal(reqBody)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to encode provider request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to build provider request")
	}
	req.Header.Set("Authorization", "Bearer "+svc.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("HTTP-Referer", svc.referer)
	req.Header.Set("X-Title", svc.title)

	started := time.Now()
	resp, err := svc.client.Do(req)
	if err != nil {
		svc.recordProviderRequest(jsonMode, "network_error")
		log.WithError(err).Error("Provider request failed")
		return nil, shared.NewBadGatewayError(err, "Language model provider is unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		svc.recordProviderRequest(jsonMode, "read_error")
		return nil, shared.NewBadGatewayError(err, "Failed to read provider response")
	}

	if resp.StatusCode != http.StatusOK {
		svc.recordProviderRequest(jsonMode, "upstream_error")
		log.WithFields(log.Fields{
			"status":   resp.StatusCode,
			"duration": time.Since(started),
		}).Error("Provider returned an error status")
		return nil, shared.NewBadGatewayError(
			errors.New("provider status "+resp.Status),
			"Language model provider request failed",
		)
	}

	var completion dto.ChatCompletionResponse
	if err := shared.JSONAPI.Unmarshal(body, &completion); err != nil {
		svc.recordProviderRequest(jsonMode, "decode_error")
		return nil, shared.NewBadGatewayError(err, "Provider returned a malformed response")
	}

	if completion.Error != nil {
		svc.recordProviderRequest(jsonMode, "upstream_error")
		return nil, shared.NewBadGatewayError(
			errors.New(completion.Error.Message),
			"Language model provider request failed",
		)
	}

	if _, ok := completion.FirstChoice(); !ok {
		svc.recordProviderRequest(jsonMode, "empty_response")
		return nil, shared.NewBadGatewayError(
			errors.New("no choices in provider response"),
			"Language model provider returned no reply",
		)
	}

	svc.recordProviderRequest(jsonMode, "ok")
	log.WithFields(log.Fields{
		"model":    completion.Model,
		"duration": time.Since(started),
	}).Debug("Provider request completed")

	return &completion, nil
}

func (svc *OpenRouterService) recordProviderRequest(jsonMode bool, outcome string) {
	if svc.monitoringSvc == nil {
		return
	}
	mode := "chat"
	if jsonMode {
		mode = "structured"
	}
	svc.monitoringSvc.RecordProviderRequest(mode, outcome)
}
