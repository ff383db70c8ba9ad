package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/storage"
)

type stubQRGenerator struct {
	calls int
}

func (g *stubQRGenerator) GeneratePNG(payload string) ([]byte, error) {
	g.calls++
	return []byte("png:" + payload), nil
}

func newTableServiceForTest(t *testing.T, store storage.Store) (*TableService, *stubQRGenerator) {
	t.Helper()
	gen := &stubQRGenerator{}
	log := logger.NewLogger()
	t.Cleanup(log.Close)
	svc := NewTableService(store, gen, t.TempDir(), "http://localhost:8080", log)
	return svc, gen
}

func TestCreateTableGeneratesQR(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{})
	svc, gen := newTableServiceForTest(t, store)

	table, err := svc.CreateTable(context.Background(), &models.CreateTableRequest{
		CafeID: cafe.ID, Number: 1, Capacity: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, table.Number)
	assert.True(t, table.IsActive)
	assert.Contains(t, table.QRPayload, cafe.ID)
	assert.Contains(t, table.QRPayload, "table=1")
	assert.Equal(t, 1, gen.calls)

	data, err := os.ReadFile(table.QRImagePath)
	require.NoError(t, err)
	assert.Equal(t, "png:"+table.QRPayload, string(data))
}

func TestCreateTableRejectsDuplicateNumber(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{})
	svc, _ := newTableServiceForTest(t, store)

	_, err := svc.CreateTable(context.Background(), &models.CreateTableRequest{CafeID: cafe.ID, Number: 1, Capacity: 4})
	require.NoError(t, err)

	_, err = svc.CreateTable(context.Background(), &models.CreateTableRequest{CafeID: cafe.ID, Number: 1, Capacity: 2})
	assert.ErrorIs(t, err, ErrTableNumberTaken)

	_, err = svc.CreateTable(context.Background(), &models.CreateTableRequest{CafeID: "cafe_missing", Number: 1, Capacity: 2})
	assert.ErrorIs(t, err, ErrCafeNotFound)
}

func TestDeleteTableRequiresDescendingOrder(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{})
	svc, _ := newTableServiceForTest(t, store)

	t1, err := svc.CreateTable(context.Background(), &models.CreateTableRequest{CafeID: cafe.ID, Number: 1, Capacity: 4})
	require.NoError(t, err)
	t2, err := svc.CreateTable(context.Background(), &models.CreateTableRequest{CafeID: cafe.ID, Number: 2, Capacity: 4})
	require.NoError(t, err)

	// Table 1 cannot go while table 2 exists.
	err = svc.DeleteTable(context.Background(), t1.ID)
	assert.ErrorIs(t, err, ErrTableNotLast)

	require.NoError(t, svc.DeleteTable(context.Background(), t2.ID))
	require.NoError(t, svc.DeleteTable(context.Background(), t1.ID))

	_, err = store.GetTable(t1.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTableActiveOrderGuards(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{})
	svc, _ := newTableServiceForTest(t, store)

	table, err := svc.CreateTable(context.Background(), &models.CreateTableRequest{CafeID: cafe.ID, Number: 1, Capacity: 4})
	require.NoError(t, err)

	require.NoError(t, store.SaveOrder(&models.Order{
		ID:          "ord_1",
		OrderNumber: "ORD2501010001",
		CafeID:      cafe.ID,
		TableID:     table.ID,
		OrderType:   models.OrderTypeDineIn,
		Status:      models.StatusPreparing,
		TotalAmount: 10,
	}))

	_, err = svc.SetActive(context.Background(), table.ID, false)
	assert.ErrorIs(t, err, ErrTableHasActiveOrders)

	err = svc.DeleteTable(context.Background(), table.ID)
	assert.ErrorIs(t, err, ErrTableHasActiveOrders)

	// Once the order reaches a terminal state the guards release.
	order, err := store.GetOrder("ord_1")
	require.NoError(t, err)
	order.Status = models.StatusServed
	require.NoError(t, store.UpdateOrder(order))

	deactivated, err := svc.SetActive(context.Background(), table.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.IsActive)

	require.NoError(t, svc.DeleteTable(context.Background(), table.ID))
}

func TestRegenerateQRReplacesImage(t *testing.T) {
	store := storage.NewInMemoryStore()
	cafe := seedCafe(t, store, models.CafeSettings{})
	svc, gen := newTableServiceForTest(t, store)

	table, err := svc.CreateTable(context.Background(), &models.CreateTableRequest{CafeID: cafe.ID, Number: 1, Capacity: 4})
	require.NoError(t, err)
	oldPath := table.QRImagePath

	regenerated, err := svc.RegenerateQR(context.Background(), table.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls)
	assert.NotEqual(t, oldPath, regenerated.QRImagePath)
	_, err = os.Stat(oldPath)
	assert.True(t, os.IsNotExist(err), "old QR image should be removed")
	_, err = os.Stat(regenerated.QRImagePath)
	assert.NoError(t, err)
}
