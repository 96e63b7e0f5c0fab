package dbhelper

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestUpsertCartItemReplacesExistingLine(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	menuItemID := uuid.New()
	unitPrice := decimal.RequireFromString("5.00")

	// the statement itself carries the one-line-per-(user, item) guarantee
	upsert := regexp.QuoteMeta("ON CONFLICT (user_id, menu_item_id)")

	mock.ExpectExec(upsert).
		WithArgs(userID, menuItemID, 2, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(upsert).
		WithArgs(userID, menuItemID, 3, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, UpsertCartItem(userID, menuItemID, 2, unitPrice, unitPrice.Mul(decimal.NewFromInt(2))))
	require.NoError(t, UpsertCartItem(userID, menuItemID, 3, unitPrice, unitPrice.Mul(decimal.NewFromInt(3))))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveCartItemAbsentLine(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	menuItemID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WithArgs(userID, menuItemID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := RemoveCartItem(userID, menuItemID)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestListCartLines(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	itemA := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.menu_item_id, m.title, c.unit_price, c.quantity, c.price")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"menu_item_id", "title", "unit_price", "quantity", "price"}).
			AddRow(itemA.String(), "Greek Salad", "5.00", 2, "10.00"))

	lines, err := ListCartLines(userID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	require.Equal(t, itemA, lines[0].MenuItemID)
	require.Equal(t, "Greek Salad", lines[0].Title)
	require.Equal(t, 2, lines[0].Quantity)
	require.True(t, decimal.RequireFromString("10.00").Equal(lines[0].Price))
}
