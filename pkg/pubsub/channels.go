package pubsub

import (
	"fmt"
	"strings"
)

// Channel naming conventions for chat delivery.
//
// Every chat participant has one addressable channel; a message sent in a
// room is published to the channels of both participants.
const (
	channelUser  = "chat:user:%s"
	channelSalon = "chat:salon:%s"

	// PatternAllChat matches every chat delivery channel. Used by hub
	// instances that forward events to their connected clients.
	PatternAllChat = "chat:*"
)

// UserChannel returns the delivery channel for a user participant.
func UserChannel(userID string) string {
	return fmt.Sprintf(channelUser, userID)
}

// SalonChannel returns the delivery channel for a salon participant.
func SalonChannel(salonID string) string {
	return fmt.Sprintf(channelSalon, salonID)
}

// ParseChannel splits a chat delivery channel into side ("user" or "salon")
// and participant id. ok is false for channels outside the chat namespace.
func ParseChannel(channel string) (side, id string, ok bool) {
	rest, found := strings.CutPrefix(channel, "chat:")
	if !found {
		return "", "", false
	}
	side, id, found = strings.Cut(rest, ":")
	if !found || id == "" || (side != "user" && side != "salon") {
		return "", "", false
	}
	return side, id, true
}
