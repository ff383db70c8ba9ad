package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
)

func newNotificationServiceForTest(t *testing.T, store storage.Store) (*NotificationService, *recordingNotifier) {
	t.Helper()
	log := logger.NewLogger()
	t.Cleanup(log.Close)
	notifier := &recordingNotifier{}
	return NewNotificationService(store, notifier, log), notifier
}

func TestCreateNotificationPushesToRecipient(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, notifier := newNotificationServiceForTest(t, store)

	n, err := svc.Create(context.Background(), &models.CreateNotificationRequest{
		RecipientID: "usr_owner",
		Type:        models.NotifSystem,
		Title:       "Maintenance",
		Message:     "Kitchen printer offline",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PriorityNormal, n.Priority, "priority defaults to normal")
	assert.False(t, n.IsRead)

	require.Len(t, notifier.userEvents, 1)
	assert.Equal(t, models.EventSystem, notifier.userEvents[0].Type)

	saved, err := store.GetNotification(n.ID)
	require.NoError(t, err)
	assert.Equal(t, "usr_owner", saved.RecipientID)
}

func TestRecordOrderEventNotifiesCafeOwner(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _ := newNotificationServiceForTest(t, store)
	cafe := seedCafe(t, store, models.CafeSettings{})

	err := svc.RecordOrderEvent(context.Background(), &models.OrderEvent{
		Type:        models.EventOrderCreated,
		OrderID:     "ord_1",
		OrderNumber: "ORD2608310001",
		CafeID:      cafe.ID,
		Status:      models.StatusPending,
	})
	require.NoError(t, err)

	notifs, err := store.ListNotifications(cafe.OwnerID, false)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, models.NotifOrderCreated, notifs[0].Type)
	assert.Equal(t, models.PriorityHigh, notifs[0].Priority)
	assert.Equal(t, "ord_1", notifs[0].Payload["order_id"])
}

func TestRecordOrderEventDropsUnknownCafe(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _ := newNotificationServiceForTest(t, store)

	err := svc.RecordOrderEvent(context.Background(), &models.OrderEvent{
		Type:   models.EventOrderStatusChanged,
		CafeID: "cafe_missing",
	})
	assert.NoError(t, err, "events for unknown cafes are dropped, not retried")
}

func TestMarkReadChecksOwnership(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _ := newNotificationServiceForTest(t, store)

	n, err := svc.Create(context.Background(), &models.CreateNotificationRequest{
		RecipientID: "usr_owner",
		Type:        models.NotifOrderStatus,
		Title:       "Order ready",
		Message:     "Order ORD2608310001 is ready",
	})
	require.NoError(t, err)

	_, err = svc.MarkRead(context.Background(), n.ID, "usr_other")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.MarkRead(context.Background(), "ntf_missing", "usr_owner")
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	read, err := svc.MarkRead(context.Background(), n.ID, "usr_owner")
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	unread, err := svc.List(context.Background(), "usr_owner", true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestMarkAllRead(t *testing.T) {
	store := storage.NewInMemoryStore()
	svc, _ := newNotificationServiceForTest(t, store)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, &models.CreateNotificationRequest{
			RecipientID: "usr_owner",
			Type:        models.NotifSystem,
			Title:       "Notice",
			Message:     "Something happened",
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.MarkAllRead(ctx, "usr_owner"))

	unread, err := svc.List(ctx, "usr_owner", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := svc.List(ctx, "usr_owner", false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
