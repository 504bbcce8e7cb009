package api

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestUploadResume(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, "file", map[string]string{
		"jane.txt": "Jane Doe, platform engineer, Go and Kubernetes",
	})
	req := httptest.NewRequest(http.MethodPost, "/upload-resume", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	env.api.UploadResumeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "Resume uploaded and stored successfully", resp["message"])
	assert.Equal(t, "Jane Doe, platform engineer, Go and Kubernetes", resp["resume_text"])
	assert.Equal(t, "Jane Doe, platform engineer, Go and Kubernetes", env.documents.storedResumes["jane.txt"])
}

func TestUploadResumeNoFile(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, "wrong_field", map[string]string{"jane.txt": "text"})
	req := httptest.NewRequest(http.MethodPost, "/upload-resume", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	env.api.UploadResumeHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file provided", decodeBody(t, rec)["error"])
}

func TestUploadResumeUnparseable(t *testing.T) {
	env := newTestEnv(t)
	env.parser.err = errors.New("no text extracted")

	body, contentType := multipartBody(t, "file", map[string]string{"scan.pdf": "binary"})
	req := httptest.NewRequest(http.MethodPost, "/upload-resume", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	env.api.UploadResumeHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Failed to extract text from resume", decodeBody(t, rec)["error"])
	assert.Empty(t, env.documents.storedResumes)
}

func TestUploadResumesBatch(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, "files", map[string]string{
		"a.txt": "first resume",
		"b.txt": "second resume",
	})
	req := httptest.NewRequest(http.MethodPost, "/documents/upload-resumes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	env.api.UploadResumesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	assert.Equal(t, "Resumes uploaded successfully", resp["message"])
	assert.Len(t, resp["uploaded_files"], 2)
	assert.Len(t, env.documents.storedResumes, 2)
}

func TestUploadResumesBatchAllUnparseable(t *testing.T) {
	env := newTestEnv(t)
	env.parser.err = errors.New("no text extracted")

	body, contentType := multipartBody(t, "files", map[string]string{"a.pdf": "x", "b.pdf": "y"})
	req := httptest.NewRequest(http.MethodPost, "/documents/upload-resumes", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	env.api.UploadResumesHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No valid resumes processed", decodeBody(t, rec)["error"])
}

func TestUploadHRDocumentsBatch(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, "files", map[string]string{
		"leave-policy.txt": "Annual leave is 20 days.",
	})
	req := httptest.NewRequest(http.MethodPost, "/documents/upload-hr-documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	env.api.UploadHRDocumentsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Annual leave is 20 days.", env.documents.storedDocs["leave-policy.txt"])
}

func TestListResumes(t *testing.T) {
	env := newTestEnv(t)
	env.documents.resumes = []string{"a.pdf", "b.pdf"}

	req := httptest.NewRequest(http.MethodGet, "/documents/list-resumes", nil)
	rec := httptest.NewRecorder()

	env.api.ListResumesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["resumes"], 2)
}

func TestDeleteResume(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodDelete, "/documents/delete-resume",
		strings.NewReader(`{"filename": "old.pdf"}`))
	rec := httptest.NewRecorder()

	env.api.DeleteResumeHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Resume 'old.pdf' deleted successfully.", decodeBody(t, rec)["message"])
	assert.Equal(t, []string{"old.pdf"}, env.documents.deleted)
}

func TestDeleteResumeMissingFilename(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodDelete, "/documents/delete-resume",
		strings.NewReader(`{"filename": ""}`))
	rec := httptest.NewRecorder()

	env.api.DeleteResumeHandler(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Filename is required.", decodeBody(t, rec)["error"])
	assert.Empty(t, env.documents.deleted)
}

func TestClearResumes(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodDelete, "/documents/clear-resumes", nil)
	rec := httptest.NewRecorder()

	env.api.ClearResumesHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.documents.cleared)
}

func TestClearInsights(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodDelete, "/documents/clear-insights", nil)
	rec := httptest.NewRecorder()

	env.api.ClearInsightsHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.insights.cleared)
}

func TestUploadResumeWrongMethod(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/upload-resume", nil)
	rec := httptest.NewRecorder()

	env.api.UploadResumeHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
