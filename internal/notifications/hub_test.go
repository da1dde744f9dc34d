package notifications

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// TestHubPublishSubscribe проверяет доставку событий подписчику.
func TestHubPublishSubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	defer unsubscribe()

	hub.Publish(userID, WeeklyPlanUpdated(2025, 10))

	select {
	case event := <-ch:
		if event.Type != "weekly_plan_updated" {
			t.Fatalf("expected event type weekly_plan_updated, got %s", event.Type)
		}
		if event.Timestamp.IsZero() {
			t.Fatal("expected timestamp to be set")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected event to be delivered")
	}
}

// TestHubUnsubscribe проверяет закрытие канала после отписки.
func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	ch, unsubscribe := hub.Subscribe(userID)
	unsubscribe()
	unsubscribe()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed")
	}
}

// TestHubPublishWithoutSubscribers проверяет, что публикация без подписчиков безопасна.
func TestHubPublishWithoutSubscribers(t *testing.T) {
	hub := NewHub()
	hub.Publish(uuid.New(), DayOrdersUpdated(2025, 10))
}

// TestHubShutdown проверяет закрытие всех подписок при остановке.
func TestHubShutdown(t *testing.T) {
	hub := NewHub()
	ch, _ := hub.Subscribe(uuid.New())

	hub.Shutdown()

	if _, ok := <-ch; ok {
		t.Fatal("expected channel to be closed after shutdown")
	}

	// Подписка после остановки сразу возвращает закрытый канал.
	late, _ := hub.Subscribe(uuid.New())
	if _, ok := <-late; ok {
		t.Fatal("expected closed channel for late subscriber")
	}
}
