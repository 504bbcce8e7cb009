package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"hr-assistant/internal/config"
	"hr-assistant/internal/document"
	"hr-assistant/internal/insight"
	"hr-assistant/internal/llm"
	"hr-assistant/internal/messaging"
)

// DocumentService is the document-store surface the handlers use.
// Satisfied by *document.Service.
type DocumentService interface {
	StoreResume(ctx context.Context, text, filename string) error
	StoreHRDocument(ctx context.Context, text, filename string) error
	RelevantPolicyText(ctx context.Context, query string) (string, error)
	RelevantResumes(ctx context.Context, query string) ([]document.RankedResume, error)
	ListResumes(ctx context.Context) ([]string, error)
	ListHRDocuments(ctx context.Context) ([]string, error)
	DeleteResume(ctx context.Context, filename string) error
	DeleteHRDocument(ctx context.Context, filename string) error
	ClearResumes(ctx context.Context) error
	ClearHRDocuments(ctx context.Context) error
}

// Completer is the chat-model surface. Satisfied by *llm.Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// InsightStore persists analysis results. Satisfied by *insight.Store.
type InsightStore interface {
	Store(ctx context.Context, insightType, result string) error
	List(ctx context.Context, insightType string) ([]insight.Insight, error)
	Clear(ctx context.Context) error
}

// FileParser extracts clean text from uploaded files. Satisfied by
// *resume.Parser.
type FileParser interface {
	Parse(filename string, reader io.Reader) (string, error)
}

// TelegramClient and WhatsAppClient deliver webhook replies.
type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

type WhatsAppClient interface {
	SendText(ctx context.Context, to, body string) error
}

type API struct {
	cfg       *config.Config
	documents DocumentService
	llm       Completer
	insights  InsightStore
	parser    FileParser
	telegram  TelegramClient
	whatsapp  WhatsAppClient
	sessions  *messaging.SessionStore
	chatQueue chan chatJob
	log       *zap.Logger
}

// Deps carries the service dependencies into NewAPI. Telegram and WhatsApp
// are optional; their webhooks answer 503 when unconfigured.
type Deps struct {
	Documents DocumentService
	LLM       Completer
	Insights  InsightStore
	Parser    FileParser
	Telegram  TelegramClient
	WhatsApp  WhatsAppClient
	Sessions  *messaging.SessionStore
	Logger    *zap.Logger
}

func NewAPI(cfg *config.Config, deps Deps) *API {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	a := &API{
		cfg:       cfg,
		documents: deps.Documents,
		llm:       deps.LLM,
		insights:  deps.Insights,
		parser:    deps.Parser,
		telegram:  deps.Telegram,
		whatsapp:  deps.WhatsApp,
		sessions:  deps.Sessions,
		chatQueue: make(chan chatJob, chatQueueSize),
		log:       log,
	}

	a.startChatWorker()

	return a
}

// answerQuestion runs the retrieval-augmented pipeline: fetch relevant
// policy text, ask the model, normalize whatever shape comes back. It never
// returns an empty string; failures degrade to the canned apologies.
func (a *API) answerQuestion(ctx context.Context, question string) string {
	policyText, err := a.documents.RelevantPolicyText(ctx, question)
	if err != nil {
		a.log.Error("policy retrieval failed", zap.Error(err))
		policyText = ""
	}

	raw, err := a.llm.Complete(ctx, llm.AnswerQuestionPrompt(question, policyText))
	if err != nil {
		a.log.Error("chat completion failed", zap.Error(err))
		return llm.FallbackNoResponse
	}

	return llm.Normalize(raw)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
