package discussions

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/edustack/edustack-server/internal/store"
)

type fakeRepo struct {
	discussions map[string]*store.Discussion
	replies     map[string][]store.Reply
	parts       map[string][]string
	partsErr    error
	seq         int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		discussions: make(map[string]*store.Discussion),
		replies:     make(map[string][]store.Reply),
		parts:       make(map[string][]string),
	}
}

func (f *fakeRepo) List(ctx context.Context, limit int) ([]store.Discussion, error) {
	out := make([]store.Discussion, 0, len(f.discussions))
	for _, d := range f.discussions {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeRepo) Get(ctx context.Context, id string) (*store.Discussion, error) {
	if d, ok := f.discussions[id]; ok {
		return d, nil
	}
	return nil, store.ErrNotFound
}

func (f *fakeRepo) Create(ctx context.Context, d *store.Discussion) error {
	f.seq++
	d.ID = fmt.Sprintf("d-%d", f.seq)
	f.discussions[d.ID] = d
	return nil
}

func (f *fakeRepo) AddReply(ctx context.Context, rep *store.Reply) error {
	f.seq++
	rep.ID = fmt.Sprintf("r-%d", f.seq)
	f.replies[rep.DiscussionID] = append(f.replies[rep.DiscussionID], *rep)
	return nil
}

func (f *fakeRepo) ListReplies(ctx context.Context, discussionID string) ([]store.Reply, error) {
	return f.replies[discussionID], nil
}

func (f *fakeRepo) Participants(ctx context.Context, discussionID string) ([]string, error) {
	if f.partsErr != nil {
		return nil, f.partsErr
	}
	return f.parts[discussionID], nil
}

type fakeNotifier struct {
	notified []string
	err      error
}

func (f *fakeNotifier) NotifyReply(ctx context.Context, userID string, d *store.Discussion, rep *store.Reply) error {
	if f.err != nil {
		return f.err
	}
	f.notified = append(f.notified, userID)
	return nil
}

type fakeBroadcaster struct {
	events []string
}

func (f *fakeBroadcaster) Broadcast(eventType string, data any) {
	f.events = append(f.events, eventType)
}

func (f *fakeBroadcaster) SendToUser(userID, eventType string, data any) {}

func TestReplyNotifiesParticipantsExceptAuthor(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	bc := &fakeBroadcaster{}
	s := NewService(Deps{Repo: repo, Notifier: notifier, Broadcast: bc})

	d, err := s.Create(ctx, "author-1", "Dudas sobre goroutines", "¿Alguien entiende select?", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.parts[d.ID] = []string{"author-1", "user-2", "user-3"}

	rep, err := s.Reply(ctx, d.ID, "author-1", "Me respondo a mí mismo")
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	if rep.ID == "" {
		t.Error("reply should get an id")
	}

	// El autor de la respuesta no se auto-notifica.
	if len(notifier.notified) != 2 {
		t.Fatalf("notified %v, want exactly user-2 and user-3", notifier.notified)
	}
	for _, uid := range notifier.notified {
		if uid == "author-1" {
			t.Error("reply author must not be notified")
		}
	}

	if len(bc.events) != 1 || bc.events[0] != EventReplyCreated {
		t.Errorf("broadcast events = %v, want [%s]", bc.events, EventReplyCreated)
	}
}

func TestReplyIsBestEffortOnFanOutFailures(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := NewService(Deps{
		Repo:      repo,
		Notifier:  &fakeNotifier{err: errors.New("boom")},
		Broadcast: &fakeBroadcaster{},
	})

	d, _ := s.Create(ctx, "author-1", "Hilo", "cuerpo", "")
	repo.parts[d.ID] = []string{"user-2"}

	if _, err := s.Reply(ctx, d.ID, "author-1", "respuesta"); err != nil {
		t.Fatalf("failed notification must not fail the reply: %v", err)
	}

	// Tampoco falla si no se pueden resolver los participantes.
	repo.partsErr = errors.New("db down")
	if _, err := s.Reply(ctx, d.ID, "author-1", "otra"); err != nil {
		t.Fatalf("participants error must not fail the reply: %v", err)
	}
}

func TestReplyValidation(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	s := NewService(Deps{Repo: repo, Notifier: &fakeNotifier{}})

	if _, err := s.Reply(ctx, "missing", "u", "hola"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown discussion: got %v", err)
	}

	d, _ := s.Create(ctx, "author-1", "Hilo", "cuerpo", "")
	if _, err := s.Reply(ctx, d.ID, "u", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank body: got %v", err)
	}
}

func TestCreateRequiresTitle(t *testing.T) {
	s := NewService(Deps{Repo: newFakeRepo(), Notifier: &fakeNotifier{}})
	if _, err := s.Create(context.Background(), "u", "  ", "body", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank title: got %v", err)
	}
}
