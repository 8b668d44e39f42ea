package webservice

import (
	"github.com/airenas/go-app/pkg/goapp"
)

type statusEvent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// WSNotifier pushes workflow status changes to websocket subscribers.
// Best effort - a failed push drops the message, the record is already committed.
type WSNotifier struct {
	wsHandler WSConnHandler
}

// NewWSNotifier creates notifier instance
func NewWSNotifier(wsHandler WSConnHandler) *WSNotifier {
	return &WSNotifier{wsHandler: wsHandler}
}

// StatusChanged implements workflow.Notifier
func (n *WSNotifier) StatusChanged(id, newStatus string) {
	conns, found := n.wsHandler.GetConnections(id)
	if !found {
		goapp.Log.Debug().Str("ID", id).Msg("no ws connections")
		return
	}
	ev := &statusEvent{ID: id, Status: newStatus}
	for _, c := range conns {
		if err := c.WriteJSON(ev); err != nil {
			goapp.Log.Error().Err(err).Msg("can't push status event")
		}
	}
}
