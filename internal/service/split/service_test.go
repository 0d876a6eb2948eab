package split

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotostampa/pdf-handler/internal/models"
	"github.com/rotostampa/pdf-handler/pkg/logger"
	"github.com/rotostampa/pdf-handler/pkg/queue"
	"github.com/rotostampa/pdf-handler/pkg/splitpdf"
)

// memStore is an in-memory Storage.
type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	storedAt map[string]time.Time
}

func newMemStore() *memStore {
	return &memStore{
		objects:  map[string][]byte{},
		storedAt: map[string]time.Time{},
	}
}

func (m *memStore) Store(ctx context.Context, key, contentType string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.storedAt[key] = time.Now()
	return nil
}

func (m *memStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.storedAt, key)
	return nil
}

func (m *memStore) CleanupBefore(ctx context.Context, threshold time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, at := range m.storedAt {
		if at.Before(threshold) {
			delete(m.objects, key)
			delete(m.storedAt, key)
		}
	}
	return nil
}

func (m *memStore) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.objects))
	for k := range m.objects {
		out = append(out, k)
	}
	return out
}

// memQueue keeps job records in a map and counts enqueues instead of
// talking to redis.
type memQueue struct {
	mu       sync.Mutex
	jobs     map[string]*models.SplitJob
	enqueued []string
}

func newMemQueue() *memQueue {
	return &memQueue{jobs: map[string]*models.SplitJob{}}
}

func (q *memQueue) Enqueue(ctx context.Context, job *models.SplitJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := *job
	q.jobs[job.ID] = &cp
	q.enqueued = append(q.enqueued, job.ID)
	return nil
}

func (q *memQueue) SaveJob(ctx context.Context, job *models.SplitJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := *job
	q.jobs[job.ID] = &cp
	return nil
}

func (q *memQueue) GetJob(ctx context.Context, id string) (*models.SplitJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", queue.ErrJobNotFound, id)
	}
	cp := *job
	return &cp, nil
}

func (q *memQueue) CancelJob(ctx context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	job, ok := q.jobs[id]
	if !ok {
		return fmt.Errorf("%w: %s", queue.ErrJobNotFound, id)
	}
	if job.Status != models.StatusPending {
		return fmt.Errorf("job %s is %s, only pending jobs can be cancelled", id, job.Status)
	}
	job.Status = models.StatusCancelled
	return nil
}

func newTestService(t *testing.T) (Service, *memQueue, *memStore) {
	t.Helper()
	q := newMemQueue()
	store := newMemStore()
	svc := NewService(q, store, logger.NewTestLogger(), nil)
	return svc, q, store
}

func letterPDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: 612, Ht: 792},
	})
	doc.SetFont("Helvetica", "", 24)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Text(72, 72, fmt.Sprintf("Page %d", i))
	}
	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf))
	return buf.Bytes()
}

func TestSplitSync(t *testing.T) {
	svc, _, _ := newTestService(t)

	results, err := svc.SplitSync(context.Background(), letterPDF(t, 3), "pdf", 0)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, res := range results {
		assert.Equal(t, i+1, res.PageNumber)
		assert.Equal(t, "application/pdf", res.FormatTag)
	}
}

func TestSplitSyncRejectsFormat(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.SplitSync(context.Background(), letterPDF(t, 1), "tiff", 0)
	assert.ErrorIs(t, err, splitpdf.ErrInvalidFormat)
}

func TestSplitSyncSizeLimit(t *testing.T) {
	q := newMemQueue()
	store := newMemStore()
	svc := NewService(q, store, logger.NewTestLogger(), &Config{MaxFileSize: 16})

	_, err := svc.SplitSync(context.Background(), letterPDF(t, 1), "pdf", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestSplitURL(t *testing.T) {
	data := letterPDF(t, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	svc, _, _ := newTestService(t)
	results, err := svc.SplitURL(context.Background(), srv.URL, "pdf", 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSubmitAndHandleJob(t *testing.T) {
	svc, q, store := newTestService(t)
	ctx := context.Background()

	job, err := svc.SubmitJob(ctx, bytes.NewReader(letterPDF(t, 3)), "run.pdf", "pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, job.Status)
	assert.Equal(t, "run.pdf", job.Filename)
	assert.Equal(t, []string{job.ID}, q.enqueued)
	assert.Contains(t, store.keys(), job.InputKey)

	require.NoError(t, svc.HandleJob(ctx, job.ID))

	done, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, done.Status)
	assert.Equal(t, 3, done.PageCount)
	assert.Equal(t, "application/pdf", done.FormatTag)
	assert.Empty(t, done.Error)

	for n := 1; n <= 3; n++ {
		assert.Contains(t, store.keys(), fmt.Sprintf("%s/%04d.pdf", job.OutputPrefix, n))
	}
}

func TestHandleJobFailureRecorded(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	job, err := svc.SubmitJob(ctx, bytes.NewReader(letterPDF(t, 1)), "run.pdf", "pdf", 0)
	require.NoError(t, err)

	// Corrupt the stored input so the worker-side split fails.
	store.mu.Lock()
	store.objects[job.InputKey] = []byte("garbage")
	store.mu.Unlock()

	require.Error(t, svc.HandleJob(ctx, job.ID))

	failed, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, failed.Status)
	assert.NotEmpty(t, failed.Error)
}

func TestHandleJobSkipsCancelled(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	job, err := svc.SubmitJob(ctx, bytes.NewReader(letterPDF(t, 1)), "run.pdf", "pdf", 0)
	require.NoError(t, err)
	require.NoError(t, svc.CancelJob(ctx, job.ID))

	require.NoError(t, svc.HandleJob(ctx, job.ID))

	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, got.Status)

	// No page artifacts were produced.
	for _, key := range store.keys() {
		assert.NotContains(t, key, "/pages/")
	}
}

func TestHandleJobUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.HandleJob(context.Background(), "missing")
	assert.ErrorIs(t, err, queue.ErrJobNotFound)
}

func TestOpenPage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.SubmitJob(ctx, bytes.NewReader(letterPDF(t, 2)), "run.pdf", "pdf", 0)
	require.NoError(t, err)
	require.NoError(t, svc.HandleJob(ctx, job.ID))

	rc, contentType, err := svc.OpenPage(ctx, job.ID, 1)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "application/pdf", contentType)

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestOpenPageOutOfRange(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.SubmitJob(ctx, bytes.NewReader(letterPDF(t, 2)), "run.pdf", "pdf", 0)
	require.NoError(t, err)
	require.NoError(t, svc.HandleJob(ctx, job.ID))

	_, _, err = svc.OpenPage(ctx, job.ID, 0)
	assert.ErrorIs(t, err, splitpdf.ErrPageNotFound)
	_, _, err = svc.OpenPage(ctx, job.ID, 3)
	assert.ErrorIs(t, err, splitpdf.ErrPageNotFound)
}

func TestOpenPageBeforeCompletion(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	job, err := svc.SubmitJob(ctx, bytes.NewReader(letterPDF(t, 1)), "run.pdf", "pdf", 0)
	require.NoError(t, err)

	_, _, err = svc.OpenPage(ctx, job.ID, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pending")
}

func TestSplitSyncPageLimit(t *testing.T) {
	q := newMemQueue()
	store := newMemStore()
	svc := NewService(q, store, logger.NewTestLogger(), &Config{MaxSyncPages: 2})

	_, err := svc.SplitSync(context.Background(), letterPDF(t, 3), "pdf", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "submit a job")

	// At the limit the split still runs.
	results, err := svc.SplitSync(context.Background(), letterPDF(t, 2), "pdf", 0)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestCleanupExpired(t *testing.T) {
	q := newMemQueue()
	store := newMemStore()
	svc := NewService(q, store, logger.NewTestLogger(), &Config{RetainFor: time.Hour})
	ctx := context.Background()

	job, err := svc.SubmitJob(ctx, bytes.NewReader(letterPDF(t, 2)), "run.pdf", "pdf", 0)
	require.NoError(t, err)
	require.NoError(t, svc.HandleJob(ctx, job.ID))
	require.NotEmpty(t, store.keys())

	// Nothing is old enough yet.
	require.NoError(t, svc.CleanupExpired(ctx))
	assert.NotEmpty(t, store.keys())

	// Age every object past the retention window.
	store.mu.Lock()
	for key := range store.storedAt {
		store.storedAt[key] = time.Now().Add(-2 * time.Hour)
	}
	store.mu.Unlock()

	require.NoError(t, svc.CleanupExpired(ctx))
	assert.Empty(t, store.keys())
}

func TestMetadata(t *testing.T) {
	svc, _, _ := newTestService(t)

	md, err := svc.Metadata(context.Background(), letterPDF(t, 4))
	require.NoError(t, err)
	assert.Equal(t, 4, md.Pages)
}
