package services

import "cafehub/internal/models"

// Notifier fans events out to live connections; the websocket hub is the
// production implementation, tests plug in a recorder.
type Notifier interface {
	NotifyVenue(cafeID string, event models.Event)
	NotifyUser(userID string, event models.Event)
	NotifyAdmins(event models.Event)
}

// NopNotifier drops every event; used when a caller has no live transport.
type NopNotifier struct{}

func (NopNotifier) NotifyVenue(string, models.Event) {}
func (NopNotifier) NotifyUser(string, models.Event)  {}
func (NopNotifier) NotifyAdmins(models.Event)        {}
