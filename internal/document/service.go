// Package document manages the resume and HR policy collections in ChromaDB:
// storage of extracted text, keyword-filtered ranked retrieval for resume
// analysis, and plain relevance retrieval for policy question answering.
package document

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"hr-assistant/internal/chroma"
)

const (
	resumeCollection = "resumes"
	policyCollection = "hr_documents"

	// policyResults is how many policy passages feed a question prompt.
	policyResults = 3
	// resumeResults is fetched before keyword filtering trims the set.
	resumeResults = 10

	// minPolicyTextLen guards against junk retrievals; anything shorter is
	// treated as no match.
	minPolicyTextLen = 10
)

// Collection is the slice of the chroma API the service needs. Satisfied by
// *chroma.Collection.
type Collection interface {
	Upsert(ctx context.Context, ids, documents []string, metadatas []map[string]interface{}) error
	Query(ctx context.Context, queryTexts []string, nResults int, where map[string]interface{}) (*chroma.QueryResult, error)
	Get(ctx context.Context) (*chroma.GetResult, error)
	Delete(ctx context.Context, ids []string, where map[string]interface{}) error
	Count(ctx context.Context) (int, error)
}

// RankedResume is a retrieval hit. Score is the vector distance: lower means
// more relevant.
type RankedResume struct {
	Text     string                 `json:"text"`
	Metadata map[string]interface{} `json:"metadata"`
	Score    float64                `json:"score"`
}

type Service struct {
	resumes  Collection
	policies Collection
	log      *zap.Logger
}

// NewService binds the service to the resume and policy collections,
// creating them on first run.
func NewService(ctx context.Context, client *chroma.Client, log *zap.Logger) (*Service, error) {
	resumes, err := client.GetOrCreateCollection(ctx, resumeCollection)
	if err != nil {
		return nil, err
	}
	policies, err := client.GetOrCreateCollection(ctx, policyCollection)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &Service{resumes: resumes, policies: policies, log: log}, nil
}

// newServiceWithCollections is the test seam.
func newServiceWithCollections(resumes, policies Collection, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{resumes: resumes, policies: policies, log: log}
}

// StoreResume stores extracted resume text keyed by filename. Re-uploading
// the same filename replaces the previous text.
func (s *Service) StoreResume(ctx context.Context, text, filename string) error {
	return s.store(ctx, s.resumes, text, filename, "resume")
}

// StoreHRDocument stores extracted policy text keyed by filename.
func (s *Service) StoreHRDocument(ctx context.Context, text, filename string) error {
	return s.store(ctx, s.policies, text, filename, "hr_document")
}

func (s *Service) store(ctx context.Context, col Collection, text, filename, docType string) error {
	metadata := map[string]interface{}{
		"filename":  filename,
		"type":      docType,
		"timestamp": time.Now().Unix(),
	}

	if err := col.Upsert(ctx, []string{filename}, []string{text}, []map[string]interface{}{metadata}); err != nil {
		return fmt.Errorf("store %s %q: %w", docType, filename, err)
	}

	s.log.Info("stored document",
		zap.String("filename", filename),
		zap.String("type", docType),
		zap.Int("text_length", len(text)))
	return nil
}

// RelevantPolicyText retrieves the policy passages most relevant to the
// question and joins them for prompting. It returns an empty string when no
// usable content exists so callers can tell the model nothing was found.
func (s *Service) RelevantPolicyText(ctx context.Context, query string) (string, error) {
	count, err := s.policies.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("count policy documents: %w", err)
	}
	if count == 0 {
		s.log.Warn("policy collection is empty, no documents have been uploaded")
		return "", nil
	}

	results, err := s.policies.Query(ctx, []string{query}, policyResults, nil)
	if err != nil {
		return "", err
	}

	var relevant []string
	for _, docList := range results.Documents {
		for _, doc := range docList {
			trimmed := strings.TrimSpace(doc)
			if trimmed == "" || trimmed == "N/A" || trimmed == "N/A N/A" {
				continue
			}
			relevant = append(relevant, doc)
		}
	}

	if len(relevant) == 0 {
		s.log.Warn("no relevant policy text found", zap.String("query", query))
		return "", nil
	}

	combined := strings.Join(relevant, "\n\n")
	if len(strings.TrimSpace(combined)) < minPolicyTextLen {
		s.log.Warn("retrieved policy text too short", zap.String("text", combined))
		return "", nil
	}

	return combined, nil
}

// RelevantResumes searches stored resumes and returns matches ranked by
// relevance. Hits that contain none of the query's keywords are dropped:
// vector proximity alone surfaces resumes that merely talk about adjacent
// topics.
func (s *Service) RelevantResumes(ctx context.Context, query string) ([]RankedResume, error) {
	results, err := s.resumes.Query(ctx, []string{query}, resumeResults, nil)
	if err != nil {
		return nil, err
	}
	if len(results.Documents) == 0 {
		return nil, nil
	}

	keywords := ExtractKeywords(query)

	var ranked []RankedResume
	for i, text := range results.Documents[0] {
		if !containsAny(text, keywords) {
			continue
		}

		var metadata map[string]interface{}
		if len(results.Metadatas) > 0 && i < len(results.Metadatas[0]) {
			metadata = results.Metadatas[0][i]
		}
		var score float64
		if len(results.Distances) > 0 && i < len(results.Distances[0]) {
			score = results.Distances[0][i]
		}

		ranked = append(ranked, RankedResume{Text: text, Metadata: metadata, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score < ranked[j].Score })

	return ranked, nil
}

// ListResumes lists stored resume filenames.
func (s *Service) ListResumes(ctx context.Context) ([]string, error) {
	return list(ctx, s.resumes)
}

// ListHRDocuments lists stored policy document filenames.
func (s *Service) ListHRDocuments(ctx context.Context) ([]string, error) {
	return list(ctx, s.policies)
}

func list(ctx context.Context, col Collection) ([]string, error) {
	result, err := col.Get(ctx)
	if err != nil {
		return nil, err
	}
	if result.IDs == nil {
		return []string{}, nil
	}
	return result.IDs, nil
}

// DeleteResume removes a resume by filename.
func (s *Service) DeleteResume(ctx context.Context, filename string) error {
	if err := s.resumes.Delete(ctx, []string{filename}, nil); err != nil {
		return err
	}
	s.log.Info("deleted resume", zap.String("filename", filename))
	return nil
}

// DeleteHRDocument removes a policy document by filename.
func (s *Service) DeleteHRDocument(ctx context.Context, filename string) error {
	if err := s.policies.Delete(ctx, []string{filename}, nil); err != nil {
		return err
	}
	s.log.Info("deleted HR document", zap.String("filename", filename))
	return nil
}

// ClearResumes deletes every stored resume.
func (s *Service) ClearResumes(ctx context.Context) error {
	return s.clear(ctx, s.resumes, "resumes")
}

// ClearHRDocuments deletes every stored policy document.
func (s *Service) ClearHRDocuments(ctx context.Context) error {
	return s.clear(ctx, s.policies, "hr_documents")
}

func (s *Service) clear(ctx context.Context, col Collection, name string) error {
	result, err := col.Get(ctx)
	if err != nil {
		return err
	}
	if len(result.IDs) == 0 {
		return nil
	}
	if err := col.Delete(ctx, result.IDs, nil); err != nil {
		return err
	}
	s.log.Info("cleared collection", zap.String("collection", name), zap.Int("deleted", len(result.IDs)))
	return nil
}
