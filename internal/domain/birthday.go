package domain

import "time"

// BirthdayRecord stores the next occurrence of a member's birthday.
// NextDate is always normalized forward: after a birthday fires the record
// is advanced by one year, so NextDate is never more than a year away.
type BirthdayRecord struct {
	DiscordID string    `bson:"discord_id" json:"discord_id"`
	NextDate  time.Time `bson:"next_date" json:"next_date"`
}
