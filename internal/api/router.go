package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation - must be registered first
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"),
	))

	// Liveness
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "HR Assistant API is running"})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Assistant endpoints
	mux.HandleFunc("/ask-hr", a.AskHRHandler)
	mux.HandleFunc("/analyze-resume", a.AnalyzeResumeHandler)
	mux.HandleFunc("/screen-resumes", a.ScreenResumesHandler)
	mux.HandleFunc("/analyze-feedback", a.AnalyzeFeedbackHandler)
	mux.HandleFunc("/analyze-engagement", a.AnalyzeEngagementHandler)
	mux.HandleFunc("/predict-retention", a.PredictRetentionHandler)
	mux.HandleFunc("/get-insights", a.GetInsightsHandler)

	// Document management
	mux.HandleFunc("/upload-resume", a.UploadResumeHandler)
	mux.HandleFunc("/documents/upload-resumes", a.UploadResumesHandler)
	mux.HandleFunc("/documents/upload-hr-documents", a.UploadHRDocumentsHandler)
	mux.HandleFunc("/documents/list-resumes", a.ListResumesHandler)
	mux.HandleFunc("/documents/list-hr-documents", a.ListHRDocumentsHandler)
	mux.HandleFunc("/documents/delete-resume", a.DeleteResumeHandler)
	mux.HandleFunc("/documents/delete-hr-document", a.DeleteHRDocumentHandler)
	mux.HandleFunc("/documents/clear-resumes", a.ClearResumesHandler)
	mux.HandleFunc("/documents/clear-hr-documents", a.ClearHRDocumentsHandler)
	mux.HandleFunc("/documents/clear-insights", a.ClearInsightsHandler)

	// Messaging webhooks
	mux.HandleFunc("/webhook/telegram", a.TelegramWebhookHandler)
	mux.HandleFunc("/webhook/whatsapp", a.WhatsAppWebhookHandler)

	var handler http.Handler = mux
	handler = newRateLimiter(a.log).middleware(handler)
	handler = corsMiddleware(handler)
	handler = securityHeaders(handler)

	return handler
}
