package app

import (
	"github.com/kheireddine-anas/busbot/core/booking"
	"github.com/kheireddine-anas/busbot/core/logger"
	"github.com/kheireddine-anas/busbot/internal/eventbus"
)

// Notification is published on the event bus for each user-facing message
// produced by a firing schedule. Chat front-ends subscribe to the bus and
// deliver these however they like.
type Notification struct {
	UserID  string
	Message string
}

type busNotifier struct {
	bus *eventbus.Bus
	log logger.Logger
}

// NewBusNotifier returns a notifier that publishes Notifications on the
// bus and mirrors them to the log.
func NewBusNotifier(bus *eventbus.Bus, log logger.Logger) booking.Notifier {
	return &busNotifier{bus: bus, log: log}
}

func (n *busNotifier) Notify(userID, message string) {
	n.log.Infof("notify user %s: %s", userID, message)
	n.bus.Publish(Notification{UserID: userID, Message: message})
}
