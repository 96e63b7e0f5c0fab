package handlers_test

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/littlelemon/models"
)

// decimalArg matches a bound decimal by value, not by its string form:
// the driver serializes 5.00 as "5", which is still the same amount.
type decimalArg struct {
	want decimal.Decimal
}

func (d decimalArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	got, err := decimal.NewFromString(s)
	return err == nil && got.Equal(d.want)
}

func TestAddToCartValidation(t *testing.T) {
	mock := setupMockDB(t)

	customer := claimsWithRoles(uuid.New(), models.RoleCustomer)
	for _, body := range []string{
		fmt.Sprintf(`{"menu_item_id": %q, "quantity": 0}`, uuid.New()),
		fmt.Sprintf(`{"menu_item_id": %q, "quantity": -2}`, uuid.New()),
		`{"quantity": 1}`,
	} {
		rec := serve(http.MethodPost, "/api/cart/menu-items", body, customer)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartUnknownMenuItem(t *testing.T) {
	mock := setupMockDB(t)

	itemID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, unit_price, inventory, created_at")).
		WithArgs(itemID).
		WillReturnError(sql.ErrNoRows)

	body := fmt.Sprintf(`{"menu_item_id": %q, "quantity": 2}`, itemID)
	rec := serve(http.MethodPost, "/api/cart/menu-items", body, claimsWithRoles(uuid.New(), models.RoleCustomer))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddToCartSnapshotsPrice(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	itemID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, unit_price, inventory, created_at")).
		WithArgs(itemID).
		WillReturnRows(menuItemRow(itemID, "Greek Salad", "5.00", 20))
	// line price is quantity x the unit price read just above
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, menu_item_id)")).
		WithArgs(userID, itemID, 2,
			decimalArg{decimal.RequireFromString("5.00")},
			decimalArg{decimal.RequireFromString("10.00")}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	body := fmt.Sprintf(`{"menu_item_id": %q, "quantity": 2}`, itemID)
	rec := serve(http.MethodPost, "/api/cart/menu-items", body, claimsWithRoles(userID, models.RoleCustomer))
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearCart(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id")).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	rec := serve(http.MethodDelete, "/api/cart/menu-items", "", claimsWithRoles(userID, models.RoleCustomer))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveCartItemNotInCart(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	itemID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WithArgs(userID, itemID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := serve(http.MethodDelete, "/api/cart/menu-items/"+itemID.String(), "", claimsWithRoles(userID, models.RoleCustomer))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
