package services

import (
	"testing"

	"codequest-platform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db)
	seedProfile(t, db, "alice", 0, 0)
	seedProfile(t, db, "bob", 0, 0)

	friendship, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipPending, friendship.Status)
	assert.Equal(t, "alice", friendship.RequesterID)

	// same direction
	_, err = svc.SendRequest("alice", "bob")
	require.ErrorIs(t, err, ErrAlreadyExists)

	// crossed request from the other side is the same pair
	_, err = svc.SendRequest("bob", "alice")
	require.ErrorIs(t, err, ErrAlreadyExists)

	// self-friendship
	_, err = svc.SendRequest("alice", "alice")
	require.ErrorIs(t, err, ErrInvalidState)

	// addressee must exist
	_, err = svc.SendRequest("alice", "nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAcceptRequest(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db)
	seedProfile(t, db, "alice", 0, 0)
	seedProfile(t, db, "bob", 0, 0)

	friendship, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	// only the addressee may accept
	_, err = svc.AcceptRequest(friendship.ID, "alice")
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.AcceptRequest(friendship.ID, "mallory")
	require.ErrorIs(t, err, ErrUnauthorized)

	accepted, err := svc.AcceptRequest(friendship.ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipAccepted, accepted.Status)

	// accepting twice is a state error
	_, err = svc.AcceptRequest(friendship.ID, "bob")
	require.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.AcceptRequest("no-such-id", "bob")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveAndResend(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db)
	seedProfile(t, db, "alice", 0, 0)
	seedProfile(t, db, "bob", 0, 0)

	friendship, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	// only participants may remove
	require.ErrorIs(t, svc.RemoveFriendship(friendship.ID, "mallory"), ErrUnauthorized)
	require.NoError(t, svc.RemoveFriendship(friendship.ID, "bob"))

	// removal frees the pair for a new request
	_, err = svc.SendRequest("bob", "alice")
	require.NoError(t, err)
}

func TestFriendsList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db)
	seedProfile(t, db, "alice", 0, 0)
	seedProfile(t, db, "bob", 0, 0)
	seedProfile(t, db, "carol", 0, 0)

	ab, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ab.ID, "bob")
	require.NoError(t, err)

	// pending carol request stays out of the friends list
	_, err = svc.SendRequest("carol", "alice")
	require.NoError(t, err)

	// both sides see the accepted friendship
	aliceFriends, err := svc.Friends("alice")
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, "bob", aliceFriends[0].Counterpart("alice"))

	bobFriends, err := svc.Friends("bob")
	require.NoError(t, err)
	assert.Len(t, bobFriends, 1)

	pending, err := svc.PendingRequests("alice")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "carol", pending[0].RequesterID)

	sent, err := svc.SentRequests("carol")
	require.NoError(t, err)
	assert.Len(t, sent, 1)
}

func TestBlockUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db)
	seedProfile(t, db, "alice", 0, 0)
	seedProfile(t, db, "bob", 0, 0)

	// blocking with no prior relationship creates the record
	blocked, err := svc.BlockUser("alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipBlocked, blocked.Status)
	assert.Equal(t, "alice", blocked.RequesterID)

	// the blocked pair cannot receive new requests
	_, err = svc.SendRequest("bob", "alice")
	require.ErrorIs(t, err, ErrAlreadyExists)

	// the blocked side cannot overwrite the block
	_, err = svc.BlockUser("bob", "alice")
	require.ErrorIs(t, err, ErrUnauthorized)

	// the blocker can lift it by removing the record
	require.NoError(t, svc.RemoveFriendship(blocked.ID, "alice"))
	_, err = svc.SendRequest("bob", "alice")
	require.NoError(t, err)
}

func TestBlockReplacesFriendship(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db)
	seedProfile(t, db, "alice", 0, 0)
	seedProfile(t, db, "bob", 0, 0)

	ab, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)
	_, err = svc.AcceptRequest(ab.ID, "bob")
	require.NoError(t, err)

	blocked, err := svc.BlockUser("bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, models.FriendshipBlocked, blocked.Status)
	assert.Equal(t, "bob", blocked.RequesterID, "blocker takes the requester side")

	friends, err := svc.Friends("alice")
	require.NoError(t, err)
	assert.Empty(t, friends)
}

func TestFriendshipWith(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFriendshipService(db)
	seedProfile(t, db, "alice", 0, 0)
	seedProfile(t, db, "bob", 0, 0)

	none, err := svc.FriendshipWith("alice", "bob")
	require.NoError(t, err)
	assert.Nil(t, none)

	sent, err := svc.SendRequest("alice", "bob")
	require.NoError(t, err)

	// direction does not matter
	found, err := svc.FriendshipWith("bob", "alice")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, sent.ID, found.ID)
}
