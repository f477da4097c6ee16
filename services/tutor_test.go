package services

import (
	goctx "context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deutschai/deutschai_api/dto"
	"github.com/deutschai/deutschai_api/shared"
)

func newStubTutor(t *testing.T, sqlSvc *SqlService, handler http.HandlerFunc) (*TutorService, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	openRouterSvc := &OpenRouterService{
		apiKey:  "test-key",
		baseURL: server.URL,
		model:   "openai/gpt-3.5-turbo",
		referer: "https://deutschai.app",
		title:   "DeutschAI",
		client:  &http.Client{Timeout: 5 * time.Second},
	}

	tutorSvc := &TutorService{
		sqlSvc:        sqlSvc,
		progressSvc:   newTestProgressService(sqlSvc),
		openRouterSvc: openRouterSvc,
	}
	return tutorSvc, server
}

func providerReply(content string) string {
	payload, _ := shared.JSONAPI.MarshalToString(map[string]interface{}{
		"id":    "gen-1",
		"model": "openai/gpt-3.5-turbo",
		"choices": []map[string]interface{}{
			{
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	})
	return payload
}

func TestChatGrantsFixedReward(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	user := createTestUser(t, sqlSvc, "chat@example.com")

	tutorSvc, _ := newStubTutor(t, sqlSvc, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(providerReply("Hallo! Wie geht es dir?")))
	})

	resp, err := tutorSvc.Chat(goctx.Background(), user.ID, dto.ChatRequest{Message: "Hallo Hans"})
	require.NoError(t, err)

	assert.Equal(t, "Hallo! Wie geht es dir?", resp.Reply)
	assert.Equal(t, 10, resp.XPGained)

	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 10, xp)

	count, err := sqlSvc.Activities.CountActivities(user.ID, shared.ActivityChat)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestChatRejectsBlankMessage(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	user := createTestUser(t, sqlSvc, "blank@example.com")

	var hits int32
	tutorSvc, _ := newStubTutor(t, sqlSvc, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})

	_, err := tutorSvc.Chat(goctx.Background(), user.ID, dto.ChatRequest{})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)

	// Validation runs before any provider traffic.
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestPracticeParsesStructuredAnalysis(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	user := createTestUser(t, sqlSvc, "practice@example.com")

	analysis := `{"score":85,"vocab_level":"B1","analysis_summary":"Solid work.","corrections":[{"original":"gegangt","correction":"gegangen","explanation":"Irregular participle","type":"grammar"}]}`
	tutorSvc, _ := newStubTutor(t, sqlSvc, func(w http.ResponseWriter, r *http.Request) {
		body := make([]byte, r.ContentLength)
		r.Body.Read(body)
		assert.Contains(t, string(body), "json_object")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(providerReply(analysis)))
	})

	resp, err := tutorSvc.Practice(goctx.Background(), user.ID, dto.PracticeRequest{Text: "Ich habe gestern ins Kino gegangt."})
	require.NoError(t, err)

	require.NotNil(t, resp.Analysis)
	assert.Equal(t, 85, resp.Analysis.Score)
	assert.Equal(t, "B1", resp.Analysis.VocabLevel)
	require.Len(t, resp.Analysis.Corrections, 1)
	assert.Equal(t, "grammar", resp.Analysis.Corrections[0].Type)

	// score 85 -> 17 points by integer division
	assert.Equal(t, 17, resp.XPGained)
	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 17, xp)

	count, err := sqlSvc.Activities.CountActivities(user.ID, shared.ActivityPractice)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPracticeDegradesOnUnstructuredReply(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	user := createTestUser(t, sqlSvc, "degrade@example.com")

	tutorSvc, _ := newStubTutor(t, sqlSvc, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(providerReply("Your text looks mostly fine!")))
	})

	resp, err := tutorSvc.Practice(goctx.Background(), user.ID, dto.PracticeRequest{Text: "Ein Text."})
	require.NoError(t, err)

	// The raw payload still reaches the caller, but no reward is granted.
	assert.Nil(t, resp.Analysis)
	assert.Equal(t, 0, resp.XPGained)
	assert.NotNil(t, resp.Provider)

	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 0, xp)

	count, err := sqlSvc.Activities.CountActivities(user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCallForwardsTranscriptAndGrantsReward(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	user := createTestUser(t, sqlSvc, "call@example.com")

	tutorSvc, _ := newStubTutor(t, sqlSvc, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(providerReply("Sehr gut! Weiter so.")))
	})

	resp, err := tutorSvc.Call(goctx.Background(), user.ID, dto.CallRequest{
		Messages: []dto.ProviderMessage{
			{Role: "user", Content: "Hallo"},
			{Role: "assistant", Content: "Hallo! Wie heisst du?"},
			{Role: "user", Content: "Ich heisse Anna"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Sehr gut! Weiter so.", resp.Reply)
	assert.Equal(t, 15, resp.XPGained)

	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 15, xp)
}

func TestCallRejectsEmptyTranscript(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	user := createTestUser(t, sqlSvc, "emptycall@example.com")

	var hits int32
	tutorSvc, _ := newStubTutor(t, sqlSvc, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})

	_, err := tutorSvc.Call(goctx.Background(), user.ID, dto.CallRequest{})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestProviderFailureLeavesProgressionUntouched(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	user := createTestUser(t, sqlSvc, "upstream@example.com")

	tutorSvc, _ := newStubTutor(t, sqlSvc, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	})

	_, err := tutorSvc.Chat(goctx.Background(), user.ID, dto.ChatRequest{Message: "Hallo"})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.StatusCode)

	xp, _ := userXP(t, sqlSvc, user.ID)
	assert.Equal(t, 0, xp)

	count, err := sqlSvc.Activities.CountActivities(user.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestProviderEmptyChoicesIsUpstreamError(t *testing.T) {
	sqlSvc := newTestSqlService(t)
	user := createTestUser(t, sqlSvc, "nochoice@example.com")

	tutorSvc, _ := newStubTutor(t, sqlSvc, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"gen-2","choices":[]}`))
	})

	_, err := tutorSvc.Chat(goctx.Background(), user.ID, dto.ChatRequest{Message: "Hallo"})
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 502, appErr.StatusCode)
}
