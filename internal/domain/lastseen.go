package domain

import "time"

// LastSeen tracks activity for the inactivity sweeps. Notified is cleared on
// every new message so a member only gets one warning per quiet stretch.
type LastSeen struct {
	DiscordID string    `bson:"discord_id" json:"discord_id"`
	LastSeen  time.Time `bson:"last_seen" json:"last_seen"`
	Notified  bool      `bson:"notified" json:"notified"`
}
