package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventRankingUpdated   = "ranking_updated"
	EventDesignsEvaluated = "designs_evaluated"
)

type Event struct {
	Type      string    `json:"type"`
	ProjectID uuid.UUID `json:"project_id"`
	Count     int       `json:"count"`
	Method    string    `json:"method,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// Notifier publishes usecase completion events to hub subscribers.
type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) RankingUpdated(projectID uuid.UUID, scored int, method string) {
	n.publish(Event{Type: EventRankingUpdated, ProjectID: projectID, Count: scored, Method: method})
}

func (n *Notifier) DesignsEvaluated(projectID uuid.UUID, evaluated int) {
	n.publish(Event{Type: EventDesignsEvaluated, ProjectID: projectID, Count: evaluated})
}

func (n *Notifier) publish(evt Event) {
	if n == nil || n.hub == nil {
		return
	}
	evt.Timestamp = n.now().UTC().Format(time.RFC3339)
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(evt.ProjectID, b)
}
