package badger

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/skylane/internal/common"
	"github.com/ternarybob/skylane/internal/interfaces"
	"github.com/ternarybob/skylane/internal/models"
)

func newTestManager(t *testing.T) interfaces.StorageManager {
	t.Helper()
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")}
	manager, err := NewManager(arbor.NewLogger(), config)
	require.NoError(t, err)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestInquiryStorage(t *testing.T) {
	storage := newTestManager(t).InquiryStorage()
	ctx := context.Background()

	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		err := storage.SaveInquiry(ctx, &models.Inquiry{
			ID:        "inq_" + name,
			Name:      name,
			Lang:      "en",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	count, err := storage.CountInquiries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	recent, err := storage.ListInquiries(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Name)
	assert.Equal(t, "second", recent[1].Name)

	all, err := storage.ListInquiries(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := storage.GetInquiry(ctx, "inq_first")
	require.NoError(t, err)
	assert.False(t, got.Notified)

	require.NoError(t, storage.MarkNotified(ctx, "inq_first"))
	got, err = storage.GetInquiry(ctx, "inq_first")
	require.NoError(t, err)
	assert.True(t, got.Notified)
}

func TestInquiryStorage_NotFound(t *testing.T) {
	storage := newTestManager(t).InquiryStorage()
	ctx := context.Background()

	_, err := storage.GetInquiry(ctx, "inq_missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	assert.ErrorIs(t, storage.MarkNotified(ctx, "inq_missing"), interfaces.ErrNotFound)
	assert.Error(t, storage.SaveInquiry(ctx, &models.Inquiry{}))
}

func TestAuditStorage(t *testing.T) {
	storage := newTestManager(t).AuditStorage()
	ctx := context.Background()

	entries := []models.LLMAudit{
		{ID: "llm_1", Operation: models.OperationSmartRFQ, Provider: "claude", Success: true, CreatedAt: time.Now().Add(-time.Minute)},
		{ID: "llm_2", Operation: models.OperationAIChat, Provider: "claude", Success: true, CreatedAt: time.Now()},
		{ID: "llm_3", Operation: models.OperationAIChat, Provider: "gemini", Success: false, Error: "boom", CreatedAt: time.Now()},
	}
	for i := range entries {
		require.NoError(t, storage.RecordCall(ctx, &entries[i]))
	}

	rfq, err := storage.CountByOperation(ctx, models.OperationSmartRFQ)
	require.NoError(t, err)
	assert.Equal(t, 1, rfq)

	chat, err := storage.CountByOperation(ctx, models.OperationAIChat)
	require.NoError(t, err)
	assert.Equal(t, 2, chat)

	assert.Error(t, storage.RecordCall(ctx, &entries[0]), "ids are unique")
}

func TestNewBadgerDB_ResetOnStartup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")
	logger := arbor.NewLogger()

	manager, err := NewManager(logger, &common.BadgerConfig{Path: path})
	require.NoError(t, err)
	require.NoError(t, manager.InquiryStorage().SaveInquiry(context.Background(), &models.Inquiry{ID: "inq_1", CreatedAt: time.Now()}))
	require.NoError(t, manager.Close())

	manager, err = NewManager(logger, &common.BadgerConfig{Path: path, ResetOnStartup: true})
	require.NoError(t, err)
	defer manager.Close()

	count, err := manager.InquiryStorage().CountInquiries(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCollectGarbageOnFreshDatabase(t *testing.T) {
	db, err := NewBadgerDB(arbor.NewLogger(), &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "gc")})
	require.NoError(t, err)

	assert.NoError(t, db.CollectGarbage())
	assert.NoError(t, db.Close())
}
