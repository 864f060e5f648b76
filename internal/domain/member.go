package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Platform identifiers
const (
	PlatformTwitch  = "twitch"
	PlatformDiscord = "discord"
)

// StreamInfo describes where a member is currently streaming.
// A nil StreamInfo on a Member means they are not live.
type StreamInfo struct {
	Platform string `bson:"platform" json:"platform"`
	URL      string `bson:"url" json:"url"`
}

// Member is one registered user: a Twitch identity, optionally linked to a
// Discord identity, plus the point balance and live/admin state derived from it.
type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	TwitchID    int64              `bson:"twitch_id" json:"twitch_id"`
	TwitchLogin string             `bson:"twitch_login" json:"twitch_login"`
	DiscordID   string             `bson:"discord_id,omitempty" json:"discord_id,omitempty"`
	DiscordName string             `bson:"discord_name,omitempty" json:"discord_name,omitempty"`
	Points      int64              `bson:"points" json:"points"`
	IsAdmin     bool               `bson:"is_admin" json:"is_admin"`
	Stream      *StreamInfo        `bson:"stream,omitempty" json:"stream,omitempty"`
}

// IsStreaming reports whether the member currently has live stream info attached.
func (m *Member) IsStreaming() bool {
	return m != nil && m.Stream != nil
}

// Linked reports whether a Discord identity is attached to the record.
func (m *Member) Linked() bool {
	return m != nil && m.DiscordID != ""
}
