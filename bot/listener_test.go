package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperreader/paperbot/ai/mock"
	"github.com/paperreader/paperbot/core"
	"github.com/paperreader/paperbot/index"
	"github.com/paperreader/paperbot/qa"
	"github.com/paperreader/paperbot/storage/badger"
	"github.com/paperreader/paperbot/zulip"
)

// fakeRealm is a minimal Zulip server: registration, one batch of
// events per queue, and message capture.
type fakeRealm struct {
	mu        sync.Mutex
	registers atomic.Int32
	events    []string
	posts     []string
	topics    []string
}

func (f *fakeRealm) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/register":
			n := f.registers.Add(1)
			fmt.Fprintf(w, `{"result":"success","queue_id":"q-%d","last_event_id":-1}`, n)
		case "/api/v1/events":
			f.mu.Lock()
			defer f.mu.Unlock()
			if len(f.events) == 0 {
				// Dead queue: forces the listener to re-register.
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"result":"error","msg":"BAD_EVENT_QUEUE_ID"}`)
				return
			}
			batch := f.events[0]
			f.events = f.events[1:]
			fmt.Fprint(w, batch)
		case "/api/v1/messages":
			r.ParseForm()
			f.mu.Lock()
			f.posts = append(f.posts, r.PostFormValue("content"))
			f.topics = append(f.topics, r.PostFormValue("topic"))
			f.mu.Unlock()
			fmt.Fprint(w, `{"result":"success","id":1}`)
		}
	})
}

func (f *fakeRealm) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func eventBatch(id int, msg map[string]any) string {
	payload := map[string]any{
		"result": "success",
		"events": []map[string]any{
			{"id": id, "type": "message", "message": msg},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func newListenerFixture(t *testing.T, realm *fakeRealm) *Listener {
	t.Helper()

	server := httptest.NewServer(realm.handler())
	t.Cleanup(server.Close)

	papers, _, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	provider := mock.NewMockProvider().(*mock.MockProvider)
	builder := index.NewBuilder(t.TempDir(), "test-model", provider.GetMockEmbedder())

	ctx := context.Background()
	paper, err := papers.AddPaper(ctx, &core.Paper{ID: "2408.01234", Title: "Some Paper"})
	require.NoError(t, err)
	_, err = builder.BuildOrLoad(ctx, paper.ID, "paper text about attention mechanisms")
	require.NoError(t, err)
	paper.Status = core.StatusProcessing
	_, err = papers.UpdatePaper(ctx, paper)
	require.NoError(t, err)
	paper.Status = core.StatusCompleted
	_, err = papers.UpdatePaper(ctx, paper)
	require.NoError(t, err)
	require.NoError(t, papers.SetTopic(ctx, paper.ID, "2026-08-31 Some Paper"))

	client, err := zulip.NewClient(zulip.DefaultConfig(
		zulip.WithSite(server.URL),
		zulip.WithCredentials("bot@example.com", "key"),
	))
	require.NoError(t, err)

	engine := qa.NewEngine(papers, builder, provider)
	listener, err := NewListener(client, engine, WithBackoff(5*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(listener.Close)

	return listener
}

func TestListenerAnswersQuestion(t *testing.T) {
	realm := &fakeRealm{}
	realm.events = []string{
		eventBatch(1, map[string]any{
			"id": 101, "type": "stream",
			"sender_email": "user@example.com", "sender_full_name": "Some User",
			"display_recipient": "Paper_Reader", "subject": "2026-08-31 Some Paper",
			"content": "@_**PaperReaderBot** said:\n```quote\nsummary\n```\nWhat is this about?",
		}),
	}

	listener := newListenerFixture(t, realm)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		listener.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return realm.postCount() > 0 },
		3*time.Second, 10*time.Millisecond, "listener should post an answer")

	cancel()
	<-done

	realm.mu.Lock()
	defer realm.mu.Unlock()
	assert.Equal(t, "2026-08-31 Some Paper", realm.topics[0])
	assert.Contains(t, realm.posts[0], "@_**Some User** asked:")
	assert.Contains(t, realm.posts[0], "What is this about?")
	assert.GreaterOrEqual(t, realm.registers.Load(), int32(1))
}

func TestListenerIgnoresNoise(t *testing.T) {
	realm := &fakeRealm{}
	realm.events = []string{
		// Bot's own message.
		eventBatch(1, map[string]any{
			"id": 101, "type": "stream",
			"sender_email": "bot@example.com", "sender_full_name": "PaperReaderBot",
			"display_recipient": "Paper_Reader", "subject": "2026-08-31 Some Paper",
			"content": "@_**PaperReaderBot** echo\n```quote\nx\n```\nloop?",
		}),
		// Message that does not mention the bot.
		eventBatch(2, map[string]any{
			"id": 102, "type": "stream",
			"sender_email": "user@example.com", "sender_full_name": "Some User",
			"display_recipient": "Paper_Reader", "subject": "2026-08-31 Some Paper",
			"content": "nice paper!",
		}),
	}

	listener := newListenerFixture(t, realm)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	listener.Run(ctx)

	assert.Zero(t, realm.postCount(), "noise must not produce replies")
	assert.GreaterOrEqual(t, realm.registers.Load(), int32(2), "dead queue forces re-registration")
}

func TestListenerExplainsUnknownTopic(t *testing.T) {
	realm := &fakeRealm{}
	realm.events = []string{
		// Question in a topic with no paper bound.
		eventBatch(1, map[string]any{
			"id": 101, "type": "stream",
			"sender_email": "user@example.com", "sender_full_name": "Some User",
			"display_recipient": "Paper_Reader", "subject": "random chatter",
			"content": "@_**PaperReaderBot** hm\n```quote\nx\n```\nwhat about this?",
		}),
	}

	listener := newListenerFixture(t, realm)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		listener.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return realm.postCount() > 0 },
		3*time.Second, 10*time.Millisecond, "listener should explain the failed correlation")

	cancel()
	<-done

	realm.mu.Lock()
	defer realm.mu.Unlock()
	assert.Equal(t, "random chatter", realm.topics[0])
	assert.Contains(t, realm.posts[0], "I don't know which paper this topic refers to")
}
