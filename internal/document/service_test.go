package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hr-assistant/internal/chroma"
)

// fakeCollection implements Collection in memory with canned query results.
type fakeCollection struct {
	docs        map[string]string
	metas       map[string]map[string]interface{}
	queryResult *chroma.QueryResult
	lastQuery   []string
	lastN       int
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{
		docs:  make(map[string]string),
		metas: make(map[string]map[string]interface{}),
	}
}

func (f *fakeCollection) Upsert(_ context.Context, ids, documents []string, metadatas []map[string]interface{}) error {
	for i, id := range ids {
		f.docs[id] = documents[i]
		f.metas[id] = metadatas[i]
	}
	return nil
}

func (f *fakeCollection) Query(_ context.Context, queryTexts []string, nResults int, _ map[string]interface{}) (*chroma.QueryResult, error) {
	f.lastQuery = queryTexts
	f.lastN = nResults
	if f.queryResult != nil {
		return f.queryResult, nil
	}
	return &chroma.QueryResult{}, nil
}

func (f *fakeCollection) Get(_ context.Context) (*chroma.GetResult, error) {
	result := &chroma.GetResult{}
	for id, doc := range f.docs {
		result.IDs = append(result.IDs, id)
		result.Documents = append(result.Documents, doc)
		result.Metadatas = append(result.Metadatas, f.metas[id])
	}
	return result, nil
}

func (f *fakeCollection) Delete(_ context.Context, ids []string, _ map[string]interface{}) error {
	for _, id := range ids {
		delete(f.docs, id)
		delete(f.metas, id)
	}
	return nil
}

func (f *fakeCollection) Count(_ context.Context) (int, error) {
	return len(f.docs), nil
}

func newTestService(t *testing.T) (*Service, *fakeCollection, *fakeCollection) {
	t.Helper()
	resumes := newFakeCollection()
	policies := newFakeCollection()
	return newServiceWithCollections(resumes, policies, zap.NewNop()), resumes, policies
}

func TestStoreResumeSetsMetadata(t *testing.T) {
	svc, resumes, _ := newTestService(t)

	err := svc.StoreResume(context.Background(), "golang developer since 2015", "ada.pdf")
	require.NoError(t, err)

	assert.Equal(t, "golang developer since 2015", resumes.docs["ada.pdf"])
	meta := resumes.metas["ada.pdf"]
	assert.Equal(t, "ada.pdf", meta["filename"])
	assert.Equal(t, "resume", meta["type"])
	assert.NotNil(t, meta["timestamp"])
}

func TestRelevantResumesFiltersAndSorts(t *testing.T) {
	svc, resumes, _ := newTestService(t)

	resumes.queryResult = &chroma.QueryResult{
		Documents: [][]string{{
			"Senior Golang developer, Kubernetes and AWS",
			"Pastry chef with a passion for croissants",
			"Golang and Terraform platform work",
		}},
		Metadatas: [][]map[string]interface{}{{
			{"filename": "a.pdf"},
			{"filename": "b.pdf"},
			{"filename": "c.pdf"},
		}},
		Distances: [][]float64{{0.42, 0.10, 0.17}},
	}

	ranked, err := svc.RelevantResumes(context.Background(), "find me a golang developer")
	require.NoError(t, err)

	// The chef resume contains no query keyword and is dropped even though
	// its vector distance is the best.
	require.Len(t, ranked, 2)
	assert.Equal(t, "c.pdf", ranked[0].Metadata["filename"])
	assert.Equal(t, "a.pdf", ranked[1].Metadata["filename"])
	assert.Less(t, ranked[0].Score, ranked[1].Score)

	// Ten candidates are fetched before filtering.
	assert.Equal(t, resumeResults, resumes.lastN)
}

func TestRelevantResumesEmptyStore(t *testing.T) {
	svc, _, _ := newTestService(t)

	ranked, err := svc.RelevantResumes(context.Background(), "golang")
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRelevantPolicyText(t *testing.T) {
	svc, _, policies := newTestService(t)

	require.NoError(t, svc.StoreHRDocument(context.Background(), "placeholder", "handbook.pdf"))

	policies.queryResult = &chroma.QueryResult{
		Documents: [][]string{{
			"Employees accrue 2 days of leave per month.",
			"  ",
			"N/A",
			"Unused leave carries over one quarter.",
		}},
	}

	text, err := svc.RelevantPolicyText(context.Background(), "how much leave do I get")
	require.NoError(t, err)
	assert.Equal(t, "Employees accrue 2 days of leave per month.\n\nUnused leave carries over one quarter.", text)
}

func TestRelevantPolicyTextEmptyCollection(t *testing.T) {
	svc, _, _ := newTestService(t)

	text, err := svc.RelevantPolicyText(context.Background(), "leave policy")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRelevantPolicyTextTooShort(t *testing.T) {
	svc, _, policies := newTestService(t)

	require.NoError(t, svc.StoreHRDocument(context.Background(), "placeholder", "handbook.pdf"))
	policies.queryResult = &chroma.QueryResult{
		Documents: [][]string{{"ok"}},
	}

	text, err := svc.RelevantPolicyText(context.Background(), "leave")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestListAndDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreResume(ctx, "text one", "one.pdf"))
	require.NoError(t, svc.StoreResume(ctx, "text two", "two.pdf"))

	names, err := svc.ListResumes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one.pdf", "two.pdf"}, names)

	require.NoError(t, svc.DeleteResume(ctx, "one.pdf"))
	names, err = svc.ListResumes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"two.pdf"}, names)
}

func TestClearResumes(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreResume(ctx, "text one", "one.pdf"))
	require.NoError(t, svc.StoreResume(ctx, "text two", "two.pdf"))

	require.NoError(t, svc.ClearResumes(ctx))

	names, err := svc.ListResumes(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestStoreResumeOverwritesByFilename(t *testing.T) {
	svc, resumes, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StoreResume(ctx, "first version", "cv.pdf"))
	require.NoError(t, svc.StoreResume(ctx, "second version", "cv.pdf"))

	assert.Equal(t, "second version", resumes.docs["cv.pdf"])

	names, err := svc.ListResumes(ctx)
	require.NoError(t, err)
	assert.Len(t, names, 1)
}
