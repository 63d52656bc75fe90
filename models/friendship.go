package models

// FriendshipStatus is the lifecycle of a friendship record
type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipBlocked  FriendshipStatus = "blocked"
)

// Friendship is an ordered (requester, addressee) pair. PairKey is the
// lexicographically sorted "low:high" of the two user ids; its unique
// index enforces that the unordered pair has at most one record,
// regardless of which side sent the request.
type Friendship struct {
	ID          string           `gorm:"primaryKey;type:uuid" json:"id"`
	RequesterID string           `gorm:"index;not null" json:"requester_id"`
	AddresseeID string           `gorm:"index;not null" json:"addressee_id"`
	PairKey     string           `gorm:"uniqueIndex;not null" json:"-"`
	Status      FriendshipStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`

	Timestamps
}

// Counterpart returns the other side of the friendship for userID.
func (f *Friendship) Counterpart(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}
