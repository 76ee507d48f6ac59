package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/zulip"
)

func summarizedPaper() *core.Paper {
	return &core.Paper{
		ID:         "2408.01234",
		SourceLink: "https://huggingface.co/papers/2408.01234",
		PDFLink:    "https://arxiv.org/pdf/2408.01234.pdf",
		Summary: &core.Summary{
			Title:      "Scaling Laws for Test-Time Compute",
			ShortTitle: "Test-Time Scaling",
			Topic:      "inference scaling",
			Abstract:   []string{"a point"},
			Analysis:   "analysis",
			Conclusion: "conclusion",
		},
	}
}

func newPosterWithServer(t *testing.T, handler http.Handler) *SummaryPoster {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := zulip.NewClient(zulip.DefaultConfig(
		zulip.WithSite(server.URL),
		zulip.WithCredentials("bot@example.com", "key"),
	))
	require.NoError(t, err)

	poster := NewSummaryPoster(client)
	poster.now = func() time.Time {
		return time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	}
	return poster
}

func TestPostSummaryTopicFormat(t *testing.T) {
	var gotTopic, gotContent string
	poster := newPosterWithServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotTopic = r.PostFormValue("topic")
		gotContent = r.PostFormValue("content")
		w.Write([]byte(`{"result":"success","id":7}`))
	}))

	topic, posted := poster.PostSummary(context.Background(), summarizedPaper())
	require.True(t, posted)
	assert.Equal(t, "2026-08-31 Test-Time Scaling", topic)
	assert.Equal(t, topic, gotTopic)
	assert.Contains(t, gotContent, "> ### Scaling Laws for Test-Time Compute")
}

func TestPostSummaryDeliveryFailure(t *testing.T) {
	poster := newPosterWithServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, posted := poster.PostSummary(context.Background(), summarizedPaper())
	assert.False(t, posted)
}

func TestPostSummaryWithoutSummary(t *testing.T) {
	poster := newPosterWithServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for a paper without a summary")
	}))

	_, posted := poster.PostSummary(context.Background(), &core.Paper{ID: "2408.01234"})
	assert.False(t, posted)
}
