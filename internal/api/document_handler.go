package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxUploadBytes bounds multipart parsing for uploads.
const maxUploadBytes = 10 << 20 // 10MB

// UploadResumeHandler stores a single resume
// @Summary Upload a resume
// @Description Upload a resume file, extract its text and store it in the resume collection
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume file (PDF, DOCX, TXT)"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /upload-resume [post]
func (a *API) UploadResumeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid (max 10MB)")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}

	text, err := a.parser.Parse(header.Filename, file)
	if err != nil {
		a.log.Warn("resume parsing failed", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusBadRequest, "Failed to extract text from resume")
		return
	}

	if err := a.documents.StoreResume(r.Context(), text, header.Filename); err != nil {
		a.log.Error("failed to store resume", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to store resume")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":     "Resume uploaded and stored successfully",
		"resume_text": text,
	})
}

// UploadResumesHandler stores a batch of resumes
// @Summary Upload multiple resumes
// @Description Upload several resume files at once; unparseable files are skipped
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Resume files"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /documents/upload-resumes [post]
func (a *API) UploadResumesHandler(w http.ResponseWriter, r *http.Request) {
	a.uploadBatch(w, r, a.documents.StoreResume,
		"Resumes uploaded successfully", "No valid resumes processed")
}

// UploadHRDocumentsHandler stores a batch of HR policy documents
// @Summary Upload HR policy documents
// @Description Upload several HR policy files at once; unparseable files are skipped
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Policy files"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /documents/upload-hr-documents [post]
func (a *API) UploadHRDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	a.uploadBatch(w, r, a.documents.StoreHRDocument,
		"HR documents uploaded successfully", "No valid HR documents processed")
}

func (a *API) uploadBatch(w http.ResponseWriter, r *http.Request,
	store func(ctx context.Context, text, filename string) error, okMsg, emptyMsg string) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "files too large or invalid (max 10MB)")
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "No files provided")
		return
	}

	var uploaded []string
	for _, header := range headers {
		if header.Filename == "" {
			continue
		}

		file, err := header.Open()
		if err != nil {
			a.log.Warn("failed to open uploaded file", zap.String("filename", header.Filename), zap.Error(err))
			continue
		}

		text, err := a.parser.Parse(header.Filename, file)
		file.Close()
		if err != nil {
			a.log.Warn("skipping file with no extractable text",
				zap.String("filename", header.Filename), zap.Error(err))
			continue
		}

		if err := store(r.Context(), text, header.Filename); err != nil {
			a.log.Error("failed to store document", zap.String("filename", header.Filename), zap.Error(err))
			continue
		}
		uploaded = append(uploaded, header.Filename)
	}

	if len(uploaded) == 0 {
		writeError(w, http.StatusBadRequest, emptyMsg)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":        okMsg,
		"uploaded_files": uploaded,
	})
}

// ListResumesHandler lists stored resume filenames
// @Summary List resumes
// @Tags documents
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /documents/list-resumes [get]
func (a *API) ListResumesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	names, err := a.documents.ListResumes(r.Context())
	if err != nil {
		a.log.Error("failed to list resumes", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list resumes")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"resumes": names})
}

// ListHRDocumentsHandler lists stored policy filenames
// @Summary List HR documents
// @Tags documents
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /documents/list-hr-documents [get]
func (a *API) ListHRDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	names, err := a.documents.ListHRDocuments(r.Context())
	if err != nil {
		a.log.Error("failed to list HR documents", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list HR documents")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"hr_documents": names})
}

// DeleteResumeHandler deletes a resume by filename
// @Summary Delete a resume
// @Tags documents
// @Accept json
// @Produce json
// @Param request body object{filename=string} true "Filename"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /documents/delete-resume [delete]
func (a *API) DeleteResumeHandler(w http.ResponseWriter, r *http.Request) {
	a.deleteByFilename(w, r, a.documents.DeleteResume, "Resume")
}

// DeleteHRDocumentHandler deletes a policy document by filename
// @Summary Delete an HR document
// @Tags documents
// @Accept json
// @Produce json
// @Param request body object{filename=string} true "Filename"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /documents/delete-hr-document [delete]
func (a *API) DeleteHRDocumentHandler(w http.ResponseWriter, r *http.Request) {
	a.deleteByFilename(w, r, a.documents.DeleteHRDocument, "HR document")
}

func (a *API) deleteByFilename(w http.ResponseWriter, r *http.Request,
	del func(ctx context.Context, filename string) error, kind string) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Filename) == "" {
		writeError(w, http.StatusBadRequest, "Filename is required.")
		return
	}

	if err := del(r.Context(), req.Filename); err != nil {
		a.log.Error("delete failed", zap.String("filename", req.Filename), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete "+kind)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": kind + " '" + req.Filename + "' deleted successfully.",
	})
}

// ClearResumesHandler deletes all resumes
// @Summary Clear resumes
// @Tags documents
// @Produce json
// @Success 200 {object} map[string]string
// @Router /documents/clear-resumes [delete]
func (a *API) ClearResumesHandler(w http.ResponseWriter, r *http.Request) {
	a.clearAll(w, r, a.documents.ClearResumes, "All resumes deleted successfully.")
}

// ClearHRDocumentsHandler deletes all policy documents
// @Summary Clear HR documents
// @Tags documents
// @Produce json
// @Success 200 {object} map[string]string
// @Router /documents/clear-hr-documents [delete]
func (a *API) ClearHRDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	a.clearAll(w, r, a.documents.ClearHRDocuments, "All HR documents deleted successfully.")
}

// ClearInsightsHandler deletes all stored insights
// @Summary Clear insights
// @Tags insights
// @Produce json
// @Success 200 {object} map[string]string
// @Router /documents/clear-insights [delete]
func (a *API) ClearInsightsHandler(w http.ResponseWriter, r *http.Request) {
	a.clearAll(w, r, a.insights.Clear, "All insights cleared successfully.")
}

func (a *API) clearAll(w http.ResponseWriter, r *http.Request,
	clear func(ctx context.Context) error, message string) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := clear(r.Context()); err != nil {
		a.log.Error("clear failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "clear failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}
