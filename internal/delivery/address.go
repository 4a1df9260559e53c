package delivery

import (
	"fmt"
	"strings"
)

// Routing layout on the broker. Each participant owns one durable queue bound
// to the shared topic exchange under its routing key; the bridge consumes the
// wildcard.
const (
	DefaultExchange = "chat.messages"

	queuePrefix      = "chat.queue."
	routingKeyPrefix = "chat.participant."

	// RoutingKeyWildcard matches every participant routing key.
	RoutingKeyWildcard = routingKeyPrefix + "#"
)

// UserRoutingKey returns the routing key for a user participant.
func UserRoutingKey(userID string) string {
	return fmt.Sprintf("%suser.%s", routingKeyPrefix, userID)
}

// SalonRoutingKey returns the routing key for a salon participant.
func SalonRoutingKey(salonID string) string {
	return fmt.Sprintf("%ssalon.%s", routingKeyPrefix, salonID)
}

// UserQueueName returns the durable queue name for a user participant.
func UserQueueName(userID string) string {
	return fmt.Sprintf("%suser.%s", queuePrefix, userID)
}

// SalonQueueName returns the durable queue name for a salon participant.
func SalonQueueName(salonID string) string {
	return fmt.Sprintf("%ssalon.%s", queuePrefix, salonID)
}

// ParseRoutingKey splits a participant routing key into side ("user" or
// "salon") and id. ok is false for keys outside the participant namespace.
func ParseRoutingKey(key string) (side, id string, ok bool) {
	rest, found := strings.CutPrefix(key, routingKeyPrefix)
	if !found {
		return "", "", false
	}
	side, id, found = strings.Cut(rest, ".")
	if !found || id == "" || (side != "user" && side != "salon") {
		return "", "", false
	}
	return side, id, true
}
