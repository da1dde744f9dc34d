package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Notifier — односторонний канал best-effort уведомлений клиентов.
// Движок планов зависит только от этого интерфейса, а не от глобального
// реестра подключений.
type Notifier interface {
	Publish(userID uuid.UUID, event Event)
}

type Event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// WeeklyPlanUpdated — сигнал клиенту перечитать план недели.
func WeeklyPlanUpdated(year, week int) Event {
	return Event{
		Type: "weekly_plan_updated",
		Data: map[string]interface{}{"year": year, "week": week},
	}
}

// DayOrdersUpdated — сигнал клиенту перечитать дневные заказы недели.
func DayOrdersUpdated(year, week int) Event {
	return Event{
		Type: "day_orders_updated",
		Data: map[string]interface{}{"year": year, "week": week},
	}
}

// WeekExpired — сигнал о том, что sweeper заморозил неделю.
func WeekExpired(year, week int) Event {
	return Event{
		Type: "week_expired",
		Data: map[string]interface{}{"year": year, "week": week},
	}
}

// Hub хранит живые подписки клиентов по пользователю и устройству.
type Hub struct {
	mu          sync.RWMutex
	closed      bool
	subscribers map[uuid.UUID]map[chan Event]struct{}
}

// NewHub создает хаб для SSE-подписок.
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[uuid.UUID]map[chan Event]struct{}),
	}
}

// Subscribe подписывает пользователя на события и возвращает канал и функцию отписки.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan Event, func()) {
	ch := make(chan Event, 10)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return ch, func() {}
	}

	userSubs, ok := h.subscribers[userID]
	if !ok {
		userSubs = make(map[chan Event]struct{})
		h.subscribers[userID] = userSubs
	}
	userSubs[ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if subs, exists := h.subscribers[userID]; exists {
			if _, live := subs[ch]; !live {
				return
			}
			delete(subs, ch)
			if len(subs) == 0 {
				delete(h.subscribers, userID)
			}
			close(ch)
		}
	}
}

// Publish отправляет событие всем подключениям пользователя. Отправка
// неблокирующая: медленный или отвалившийся клиент событие теряет.
func (h *Hub) Publish(userID uuid.UUID, event Event) {
	event.Timestamp = time.Now().UTC()

	h.mu.RLock()
	defer h.mu.RUnlock()

	subs, ok := h.subscribers[userID]
	if !ok {
		return
	}

	for ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Shutdown закрывает все подписки; вызывается из bootstrap при остановке.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for userID, subs := range h.subscribers {
		for ch := range subs {
			close(ch)
		}
		delete(h.subscribers, userID)
	}
}
