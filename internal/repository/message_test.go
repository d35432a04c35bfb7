package repository

import (
	"context"
	"testing"
	"time"

	"unimarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sendMessage(t *testing.T, repo MessageRepository, sender, receiver uint, content string, at time.Time) *models.Message {
	t.Helper()

	msg := &models.Message{SenderID: sender, ReceiverID: receiver, Content: content, CreatedAt: at}
	require.NoError(t, repo.Create(context.Background(), msg))
	return msg
}

func TestMessageRepository_ThreadIsChronological(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	eve := seedUser(t, db, "eve")

	base := time.Now().Add(-time.Hour)
	sendMessage(t, repo, alice.ID, bob.ID, "is the desk still available?", base)
	sendMessage(t, repo, bob.ID, alice.ID, "yes, pickup tomorrow?", base.Add(time.Minute))
	sendMessage(t, repo, alice.ID, bob.ID, "works for me", base.Add(2*time.Minute))
	sendMessage(t, repo, eve.ID, alice.ID, "unrelated", base.Add(3*time.Minute))

	thread, err := repo.GetThread(ctx, alice.ID, bob.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, thread, 3)
	assert.Equal(t, "is the desk still available?", thread[0].Content)
	assert.Equal(t, "works for me", thread[2].Content)
	require.NotNil(t, thread[0].Sender)
	assert.Equal(t, alice.ID, thread[0].Sender.ID)
}

func TestMessageRepository_UnreadCountAndMarkRead(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "unreadalice")
	bob := seedUser(t, db, "unreadbob")
	eve := seedUser(t, db, "unreadeve")

	base := time.Now().Add(-time.Hour)
	sendMessage(t, repo, bob.ID, alice.ID, "one", base)
	sendMessage(t, repo, bob.ID, alice.ID, "two", base.Add(time.Minute))
	sendMessage(t, repo, eve.ID, alice.ID, "three", base.Add(2*time.Minute))
	sendMessage(t, repo, alice.ID, bob.ID, "outbound does not count", base.Add(3*time.Minute))

	count, err := repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	// Opening the thread with bob clears only bob's messages
	affected, err := repo.MarkReadFrom(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, affected)

	count, err = repo.UnreadCount(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Marking again transitions nothing
	affected, err = repo.MarkReadFrom(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, affected)

	var read models.Message
	require.NoError(t, db.Where("sender_id = ? AND receiver_id = ?", bob.ID, alice.ID).First(&read).Error)
	assert.True(t, read.IsRead)
	assert.NotNil(t, read.ReadAt)
}

func TestMessageRepository_ConversationsFold(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "convalice")
	bob := seedUser(t, db, "convbob")
	carol := seedUser(t, db, "convcarol")

	base := time.Now().Add(-time.Hour)
	sendMessage(t, repo, bob.ID, alice.ID, "hey", base)
	sendMessage(t, repo, alice.ID, bob.ID, "hi bob", base.Add(time.Minute))
	sendMessage(t, repo, carol.ID, alice.ID, "selling a lamp", base.Add(2*time.Minute))
	sendMessage(t, repo, carol.ID, alice.ID, "still interested?", base.Add(3*time.Minute))

	conversations, err := repo.Conversations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)

	// Most recent partner first
	assert.Equal(t, carol.ID, conversations[0].Partner.ID)
	assert.Equal(t, "still interested?", conversations[0].LastMessage.Content)
	assert.EqualValues(t, 2, conversations[0].UnreadCount)

	assert.Equal(t, bob.ID, conversations[1].Partner.ID)
	assert.Equal(t, "hi bob", conversations[1].LastMessage.Content)
	// Alice's own reply was the latest in that thread; bob's opener is unread
	assert.EqualValues(t, 1, conversations[1].UnreadCount)
}

func TestMessageRepository_ConversationsEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)

	loner := seedUser(t, db, "loner")

	conversations, err := repo.Conversations(context.Background(), loner.ID)
	require.NoError(t, err)
	assert.NotNil(t, conversations)
	assert.Empty(t, conversations)
}
