package services

import (
	goctx "context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/alphabatem/common/context"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/model"
	"github.com/deutschai/deutschai_api/shared"
)

// TutorService orchestrates the three tutoring modes. Every mode follows
// the same shape: validate, call the provider, and only after a confirmed
// provider success log the reward event. A provider failure must never
// leave a partial progression update behind.
type TutorService struct {
	context.DefaultService

	sqlSvc        *SqlService
	progressSvc   *ProgressService
	openRouterSvc *OpenRouterService
}

const TUTOR_SVC = "tutor_svc"

const (
	chatPoints = 10
	callPoints = 15
)

func (svc TutorService) Id() string {
	return TUTOR_SVC
}

func (svc *TutorService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *TutorService) Start() error {
	svc.sqlSvc = svc.Service(SQL_SVC).(*SqlService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.openRouterSvc = svc.Service(OPENROUTER_SVC).(*OpenRouterService)
	return nil
}

// Chat handles a single free-text tutoring message.
func (svc *TutorService) Chat(ctx goctx.Context, userID uint, req dto.ChatRequest) (*dto.TutorReplyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.CreateValidationErrorResponse(err))
	}

	user, err := svc.sqlSvc.Users.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	messages := []dto.ProviderMessage{
		{Role: "system", Content: chatSystemPrompt(user)},
		{Role: "user", Content: req.Message},
	}

	completion, err := svc.openRouterSvc.ChatCompletion(ctx, messages, false)
	if err != nil {
		return nil, err
	}

	reply, _ := completion.FirstChoice()

	if _, err := svc.progressSvc.LogEvent(userID, shared.ActivityChat, "Chatted with the tutor", chatPoints); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to log chat activity")
		return nil, err
	}

	return &dto.TutorReplyResponse{
		Reply:    reply,
		XPGained: chatPoints,
		Provider: completion,
	}, nil
}

// Practice grades a free-text passage. The provider is asked for a
// structured JSON analysis; if the content does not parse, the raw
// payload is still returned but no reward is granted.
func (svc *TutorService) Practice(ctx goctx.Context, userID uint, req dto.PracticeRequest) (*dto.PracticeResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.CreateValidationErrorResponse(err))
	}

	user, err := svc.sqlSvc.Users.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	messages := []dto.ProviderMessage{
		{Role: "system", Content: practiceSystemPrompt(user)},
		{Role: "user", Content: req.Text},
	}

	completion, err := svc.openRouterSvc.ChatCompletion(ctx, messages, true)
	if err != nil {
		return nil, err
	}

	content, _ := completion.FirstChoice()

	var analysis dto.PracticeAnalysis
	if err := shared.JSONAPI.Unmarshal([]byte(content), &analysis); err != nil {
		log.WithError(err).WithField("user_id", userID).Warn("Provider ignored the structured format")
		return &dto.PracticeResponse{
			Analysis: nil,
			XPGained: 0,
			Provider: completion,
		}, nil
	}

	points := analysis.Score / 5
	desc := fmt.Sprintf("Completed a grammar exercise (%d%%)", analysis.Score)
	if _, err := svc.progressSvc.LogEvent(userID, shared.ActivityPractice, desc, points); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to log practice activity")
		return nil, err
	}

	return &dto.PracticeResponse{
		Analysis: &analysis,
		XPGained: clampPoints(points),
		Provider: completion,
	}, nil
}

// Call continues a spoken-style conversation transcript.
func (svc *TutorService) Call(ctx goctx.Context, userID uint, req dto.CallRequest) (*dto.TutorReplyResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, shared.NewBadRequestError(err, "Validation failed").WithData(dto.CreateValidationErrorResponse(err))
	}

	user, err := svc.sqlSvc.Users.GetUser(userID)
	if err != nil {
		return nil, svc.sqlSvc.HandleError(err)
	}

	messages := make([]dto.ProviderMessage, 0, len(req.Messages)+1)
	messages = append(messages, dto.ProviderMessage{Role: "system", Content: callSystemPrompt(user)})
	messages = append(messages, req.Messages...)

	completion, err := svc.openRouterSvc.ChatCompletion(ctx, messages, false)
	if err != nil {
		return nil, err
	}

	reply, _ := completion.FirstChoice()

	if _, err := svc.progressSvc.LogEvent(userID, shared.ActivityChat, "Held a voice call with the tutor", callPoints); err != nil {
		log.WithError(err).WithField("user_id", userID).Error("Failed to log call activity")
		return nil, err
	}

	return &dto.TutorReplyResponse{
		Reply:    reply,
		XPGained: callPoints,
		Provider: completion,
	}, nil
}

func chatSystemPrompt(user *model.User) string {
	return fmt.Sprintf(
		"You are Hans, a helpful %s language tutor. The user's level is %s. "+
			"Please speak primarily in %s and encourage the user. "+
			"Keep your responses concise and engaging.",
		languageName(user.TargetLanguage), user.Level, languageName(user.TargetLanguage))
}

func practiceSystemPrompt(user *model.User) string {
	return fmt.Sprintf(
		"You are an expert %s grammar checker. The user's level is %s.\n"+
			"Analyze the following %s text for:\n"+
			"1. Grammar errors\n"+
			"2. Spelling mistakes\n"+
			"3. Suggested improvements for better fluency\n"+
			"4. CEFR level of the vocabulary used\n"+
			"5. An overall grammar score (0-100%%)\n\n"+
			"IMPORTANT: Your response MUST be in JSON format with the following structure:\n"+
			"{\n"+
			"    \"score\": number,\n"+
			"    \"vocab_level\": \"string (A1-C2)\",\n"+
			"    \"analysis_summary\": \"string in %s\",\n"+
			"    \"corrections\": [\n"+
			"        {\n"+
			"            \"original\": \"string\",\n"+
			"            \"correction\": \"string\",\n"+
			"            \"explanation\": \"string in %s\",\n"+
			"            \"type\": \"grammar\" | \"spelling\" | \"style\"\n"+
			"        }\n"+
			"    ]\n"+
			"}",
		languageName(user.TargetLanguage), user.Level, languageName(user.TargetLanguage),
		languageName(user.NativeLanguage), languageName(user.NativeLanguage))
}

func callSystemPrompt(user *model.User) string {
	return fmt.Sprintf(
		"You are Hans, a friendly and encouraging %s language teacher. "+
			"The user's level is %s. The user is practicing speaking %s. "+
			"Always respond in %s, keep responses short and natural like a real conversation. "+
			"If the message seems unclear or broken, try your best to understand the intent "+
			"and respond helpfully. Gently correct any grammar mistakes.",
		languageName(user.TargetLanguage), user.Level,
		languageName(user.TargetLanguage), languageName(user.TargetLanguage))
}

// languageName expands the common ISO 639-1 codes; unknown codes pass
// through unchanged so the prompt stays usable.
func languageName(code string) string {
	switch code {
	case "de":
		return "German"
	case "en":
		return "English"
	case "fr":
		return "French"
	case "es":
		return "Spanish"
	case "it":
		return "Italian"
	case "tr":
		return "Turkish"
	case "ar":
		return "Arabic"
	default:
		return code
	}
}
