package memory

import (
	"testing"
	"time"

	"github.com/AndreyStartsev/heb-tes-project/internal/app"
	"github.com/AndreyStartsev/heb-tes-project/internal/domain"
)

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewSessionStore()

	session := app.NewSessionWithClock("s1", domain.Quiz{ID: "quiz-1"}, domain.DefaultRules(), time.Now)
	store.Put(session)

	got, ok := store.Get("s1")
	if !ok || got.ID() != "s1" {
		t.Fatalf("expected session s1 present, got ok=%v", ok)
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed")
	}
}
