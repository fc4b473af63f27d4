package extraction

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yt-ingest/models"
)

type stubService struct {
	result *models.ExtractResult
	err    error
	block  chan struct{}
}

func (s *stubService) Extract(ctx context.Context, req models.ExtractRequest) (*models.ExtractResult, error) {
	if s.block != nil {
		<-s.block
	}
	return s.result, s.err
}

func (s *stubService) GetContent(ctx context.Context, id string) (*models.ContentResponse, error) {
	return nil, nil
}

func TestJobQueueRoundTrip(t *testing.T) {
	service := &stubService{result: &models.ExtractResult{Status: models.StatusSuccess, ContentID: "id-1"}}
	queue := NewJobQueue(service, 2, 8, zerolog.Nop())
	queue.Start()
	defer queue.Close()

	results, err := queue.Submit(context.Background(), models.ExtractRequest{URL: "https://example.com/v"})
	require.NoError(t, err)

	select {
	case res := <-results:
		require.NoError(t, res.Err)
		assert.Equal(t, "id-1", res.Result.ContentID)
	case <-time.After(time.Second):
		t.Fatal("job result never arrived")
	}
}

func TestJobQueueFull(t *testing.T) {
	// One worker stuck on a blocking job, capacity one: the first submit
	// occupies the worker, the second fills the queue, the third bounces.
	service := &stubService{block: make(chan struct{})}
	queue := NewJobQueue(service, 1, 1, zerolog.Nop())
	queue.Start()
	defer func() {
		close(service.block)
		queue.Close()
	}()

	_, err := queue.Submit(context.Background(), models.ExtractRequest{URL: "a"})
	require.NoError(t, err)

	// Give the worker time to pull the first job off the channel.
	time.Sleep(20 * time.Millisecond)

	_, err = queue.Submit(context.Background(), models.ExtractRequest{URL: "b"})
	require.NoError(t, err)

	_, err = queue.Submit(context.Background(), models.ExtractRequest{URL: "c"})
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestJobQueueCloseIsIdempotent(t *testing.T) {
	queue := NewJobQueue(&stubService{result: &models.ExtractResult{}}, 1, 1, zerolog.Nop())
	queue.Start()
	queue.Close()
	queue.Close()
}
