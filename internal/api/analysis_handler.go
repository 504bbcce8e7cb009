package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"hr-assistant/internal/insight"
	"hr-assistant/internal/llm"
)

// AskHRHandler answers an HR policy question
// @Summary Ask an HR question
// @Description Answer an employee question using the uploaded HR policy documents
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body object{question=string} true "Question"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /ask-hr [post]
func (a *API) AskHRHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "Missing question")
		return
	}

	answer := a.answerQuestion(r.Context(), req.Question)

	writeJSON(w, http.StatusOK, map[string]string{
		"question": req.Question,
		"answer":   answer,
	})
}

// AnalyzeResumeHandler analyzes stored resumes against a hiring query
// @Summary Analyze stored resumes
// @Description Retrieve the most relevant stored resumes for a query and summarize their fit
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body object{query=string} true "Hiring query"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /analyze-resume [post]
func (a *API) AnalyzeResumeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "Query is required")
		return
	}

	ranked, err := a.documents.RelevantResumes(r.Context(), req.Query)
	if err != nil {
		a.log.Error("resume retrieval failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "resume retrieval failed")
		return
	}

	if len(ranked) == 0 {
		// 200 on purpose: an empty pool is an answer, not a failure.
		writeJSON(w, http.StatusOK, map[string]string{"error": "No matching resumes found"})
		return
	}

	blocks := make([]string, len(ranked))
	for i, res := range ranked {
		blocks[i] = fmt.Sprintf("Rank %d (Score: %.4f):\n%s", i+1, res.Score, res.Text)
	}

	analysis := llm.FallbackNoResponse
	raw, err := a.llm.Complete(r.Context(), llm.AnalyzeResumesPrompt(req.Query, strings.Join(blocks, "\n\n")))
	if err != nil {
		a.log.Error("resume analysis failed", zap.Error(err))
	} else {
		analysis = llm.Normalize(raw)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":    req.Query,
		"analysis": analysis,
		"resumes":  ranked,
	})
}

// ScreenResumesHandler screens resume texts against a job description
// @Summary Screen resumes
// @Description Rank the provided resume texts against a job description
// @Tags assistant
// @Accept json
// @Produce json
// @Param request body object{job_description=string,resumes=[]string} true "Job description and resume texts"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /screen-resumes [post]
func (a *API) ScreenResumesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		JobDescription string   `json:"job_description"`
		Resumes        []string `json:"resumes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		strings.TrimSpace(req.JobDescription) == "" || len(req.Resumes) == 0 {
		writeError(w, http.StatusBadRequest, "Missing job description or resumes")
		return
	}

	raw, err := a.llm.Complete(r.Context(), llm.ScreenResumesPrompt(req.JobDescription, req.Resumes))
	if err != nil {
		a.log.Error("resume screening failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, "screening failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"result": llm.Normalize(raw)})
}

// AnalyzeFeedbackHandler analyzes a single feedback entry
// @Summary Analyze employee feedback
// @Description Determine sentiment and key topics of one feedback entry; the result is stored as an insight
// @Tags insights
// @Accept json
// @Produce json
// @Param request body object{feedback_text=string} true "Feedback text"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /analyze-feedback [post]
func (a *API) AnalyzeFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		FeedbackText string `json:"feedback_text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.FeedbackText) == "" {
		writeError(w, http.StatusBadRequest, "Missing feedback_text")
		return
	}

	a.runAnalysis(w, r, insight.TypeSentiment, llm.FeedbackPrompt(req.FeedbackText),
		"Sentiment analysis stored successfully.")
}

// AnalyzeEngagementHandler analyzes engagement trends over many entries
// @Summary Analyze engagement trends
// @Description Aggregate feedback entries into engagement insights; the result is stored
// @Tags insights
// @Accept json
// @Produce json
// @Param request body object{feedback_list=[]string} true "Feedback entries"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /analyze-engagement [post]
func (a *API) AnalyzeEngagementHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		FeedbackList []string `json:"feedback_list"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.FeedbackList) == 0 {
		writeError(w, http.StatusBadRequest, "Missing feedback_list")
		return
	}

	joined := strings.Join(req.FeedbackList, "\n\n")
	a.runAnalysis(w, r, insight.TypeEngagement, llm.EngagementPrompt(joined),
		"Engagement analysis stored successfully.")
}

// PredictRetentionHandler predicts retention risk for an employee
// @Summary Predict retention risk
// @Description Predict retention risk from free-form employee data; the result is stored
// @Tags insights
// @Accept json
// @Produce json
// @Param request body object{employee_data=object} true "Employee data"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /predict-retention [post]
func (a *API) PredictRetentionHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		EmployeeData json.RawMessage `json:"employee_data"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.EmployeeData) == 0 ||
		string(req.EmployeeData) == "null" {
		writeError(w, http.StatusBadRequest, "Missing employee_data")
		return
	}

	a.runAnalysis(w, r, insight.TypeRetention, llm.RetentionPrompt(string(req.EmployeeData)),
		"Retention analysis stored successfully.")
}

// runAnalysis is the shared analyze-store-respond path for the insight
// endpoints.
func (a *API) runAnalysis(w http.ResponseWriter, r *http.Request, insightType, prompt, message string) {
	raw, err := a.llm.Complete(r.Context(), prompt)
	if err != nil {
		a.log.Error("analysis failed", zap.String("type", insightType), zap.Error(err))
		writeError(w, http.StatusBadGateway, "analysis failed")
		return
	}

	result := llm.Normalize(raw)

	if err := a.insights.Store(r.Context(), insightType, result); err != nil {
		a.log.Error("failed to store insight", zap.String("type", insightType), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store insight")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": message,
		"result":  result,
	})
}

// GetInsightsHandler lists stored insights
// @Summary List insights
// @Description List stored analysis insights, optionally filtered by type
// @Tags insights
// @Produce json
// @Param type query string false "Insight type (sentiment, engagement, retention)"
// @Success 200 {object} map[string]interface{}
// @Router /get-insights [get]
func (a *API) GetInsightsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	insights, err := a.insights.List(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		a.log.Error("failed to list insights", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list insights")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"insights": insights})
}
