package inventory_test

import (
	"context"
	"store/db"
	"store/entities"
	"store/inventory"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor(t *testing.T) (*inventory.Processor, *inventory.Ledger) {
	t.Helper()

	eventBus, _ := newTestEventBus(t)
	ledger := inventory.NewLedger(db.NewInventoryRepositoryMock(), eventBus)
	return inventory.NewProcessor(ledger, db.NewProcessedCommandsMock()), ledger
}

func decreaseStock(dedupKey, productID string, quantity int) entities.DecreaseStock {
	return entities.DecreaseStock{
		Header:    entities.NewEventHeaderWithIdempotencyKey(dedupKey),
		ProductID: productID,
		Quantity:  quantity,
		ActorID:   "staff-1",
		ActorRole: entities.RoleStaff,
	}
}

func TestProcessorDecreaseStock(t *testing.T) {
	ctx := context.Background()
	processor, ledger := newTestProcessor(t)

	require.NoError(t, ledger.Onboard(ctx, "product-1", 10))

	view, err := processor.DecreaseStock(ctx, decreaseStock("cmd-1", "product-1", 7))
	require.NoError(t, err)
	assert.Equal(t, 3, view.Quantity)

	// Redelivery of the same command returns the recorded result without
	// touching the ledger again.
	view, err = processor.DecreaseStock(ctx, decreaseStock("cmd-1", "product-1", 7))
	require.NoError(t, err)
	assert.Equal(t, 3, view.Quantity)

	quantity, err := ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 3, quantity)

	_, err = processor.DecreaseStock(ctx, decreaseStock("cmd-2", "product-1", 5))
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	quantity, err = ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 3, quantity)
}

func TestProcessorRejectionIsRecorded(t *testing.T) {
	ctx := context.Background()
	processor, ledger := newTestProcessor(t)

	require.NoError(t, ledger.Onboard(ctx, "product-1", 2))

	_, err := processor.DecreaseStock(ctx, decreaseStock("cmd-1", "product-1", 5))
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	// A restock between delivery and redelivery must not change the outcome
	// of the original command.
	_, err = ledger.Apply(ctx, "product-1", 10)
	require.NoError(t, err)

	_, err = processor.DecreaseStock(ctx, decreaseStock("cmd-1", "product-1", 5))
	require.ErrorIs(t, err, inventory.ErrInsufficientStock)

	quantity, err := ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 12, quantity)
}

func TestProcessorForbiddenRole(t *testing.T) {
	ctx := context.Background()
	processor, ledger := newTestProcessor(t)

	require.NoError(t, ledger.Onboard(ctx, "product-1", 10))

	cmd := decreaseStock("cmd-1", "product-1", 1)
	cmd.ActorRole = entities.RoleCustomer

	_, err := processor.DecreaseStock(ctx, cmd)
	require.ErrorIs(t, err, inventory.ErrForbidden)

	quantity, err := ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 10, quantity)
}

func TestProcessorUnknownProduct(t *testing.T) {
	ctx := context.Background()
	processor, _ := newTestProcessor(t)

	_, err := processor.DecreaseStock(ctx, decreaseStock("cmd-1", "never-onboarded", 1))
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestProcessorNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	processor, _ := newTestProcessor(t)

	_, err := processor.DecreaseStock(ctx, decreaseStock("cmd-1", "product-1", 0))
	assert.Error(t, err)

	_, err = processor.DecreaseStock(ctx, decreaseStock("cmd-2", "product-1", -3))
	assert.Error(t, err)
}

func TestProcessorUpdateStock(t *testing.T) {
	ctx := context.Background()
	processor, ledger := newTestProcessor(t)

	require.NoError(t, ledger.Onboard(ctx, "product-1", 3))

	cmd := entities.UpdateStock{
		Header:    entities.NewEventHeaderWithIdempotencyKey("restock-1"),
		ProductID: "product-1",
		Quantity:  5,
	}

	view, err := processor.UpdateStock(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 8, view.Quantity)

	view, err = processor.UpdateStock(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 8, view.Quantity, "redelivered restock must not apply twice")

	quantity, err := ledger.CurrentQuantity(ctx, "product-1")
	require.NoError(t, err)
	assert.Equal(t, 8, quantity)
}
