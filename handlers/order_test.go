package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ray-remotestate/littlelemon/database"
	"github.com/ray-remotestate/littlelemon/handlers"
	"github.com/ray-remotestate/littlelemon/middlewares"
	"github.com/ray-remotestate/littlelemon/models"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	database.LittleLemon = db
	t.Cleanup(func() { db.Close() })
	return mock
}

func claimsWithRoles(userID uuid.UUID, roles ...models.Role) *middlewares.Claims {
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}
	return &middlewares.Claims{UserID: userID, Roles: names}
}

func testRouter() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/api/orders", handlers.ListOrders).Methods("GET")
	router.HandleFunc("/api/orders", handlers.CreateOrder).Methods("POST")
	router.HandleFunc("/api/orders/{id}", handlers.GetOrder).Methods("GET")
	router.HandleFunc("/api/orders/{id}", handlers.AssignOrder).Methods("PUT")
	router.HandleFunc("/api/orders/{id}", handlers.SetOrderStatus).Methods("PATCH")
	router.HandleFunc("/api/orders/{id}", handlers.DeleteOrder).Methods("DELETE")
	router.HandleFunc("/api/menu-items", handlers.CreateMenuItem).Methods("POST")
	router.HandleFunc("/api/menu-items/{id}", handlers.PatchMenuItem).Methods("PATCH")
	router.HandleFunc("/api/cart/menu-items", handlers.AddToCart).Methods("POST")
	router.HandleFunc("/api/cart/menu-items", handlers.ClearCart).Methods("DELETE")
	router.HandleFunc("/api/cart/menu-items/{id}", handlers.RemoveCartItem).Methods("DELETE")
	return router
}

func serve(method, target, body string, claims *middlewares.Claims) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req = req.WithContext(middlewares.WithUser(req.Context(), claims))
	rec := httptest.NewRecorder()
	testRouter().ServeHTTP(rec, req)
	return rec
}

func orderRow(orderID, userID uuid.UUID, status int, crew interface{}, total string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "user_id", "order_status", "delivery_crew_id", "total", "created_at"}).
		AddRow(orderID.String(), userID.String(), status, crew, total, time.Now())
}

func TestCreateOrderFromCart(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()
	itemA := uuid.New()
	itemB := uuid.New()
	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.menu_item_id, c.quantity, m.unit_price")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"menu_item_id", "quantity", "unit_price"}).
			AddRow(itemA.String(), 2, "5.00").
			AddRow(itemB.String(), 1, "3.00"))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders")).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_status", "created_at"}).
			AddRow(orderID.String(), 0, time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(orderID, itemA, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO order_items")).
		WithArgs(orderID, itemB, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items WHERE user_id")).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	rec := serve(http.MethodPost, "/api/orders", "", claimsWithRoles(userID, models.RoleCustomer))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
	require.True(t, decimal.RequireFromString("13.00").Equal(order.Total),
		"expected total 13.00, got %s", order.Total)
	require.Len(t, order.Items, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderEmptyCart(t *testing.T) {
	mock := setupMockDB(t)

	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT c.menu_item_id, c.quantity, m.unit_price")).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows([]string{"menu_item_id", "quantity", "unit_price"}))
	mock.ExpectRollback()

	rec := serve(http.MethodPost, "/api/orders", "", claimsWithRoles(userID, models.RoleCustomer))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderCustomerOwnership(t *testing.T) {
	orderID := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()

	t.Run("own order", func(t *testing.T) {
		mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, order_status, delivery_crew_id, total, created_at")).
			WithArgs(orderID).
			WillReturnRows(orderRow(orderID, owner, 0, nil, "13.00"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, order_id, menu_item_id, quantity")).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "quantity"}).
				AddRow(uuid.New().String(), orderID.String(), uuid.New().String(), 2))

		rec := serve(http.MethodGet, "/api/orders/"+orderID.String(), "", claimsWithRoles(owner, models.RoleCustomer))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("foreign order", func(t *testing.T) {
		mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, order_status, delivery_crew_id, total, created_at")).
			WithArgs(orderID).
			WillReturnRows(orderRow(orderID, owner, 0, nil, "13.00"))

		rec := serve(http.MethodGet, "/api/orders/"+orderID.String(), "", claimsWithRoles(stranger, models.RoleCustomer))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delivery crew reads any order", func(t *testing.T) {
		mock := setupMockDB(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, order_status, delivery_crew_id, total, created_at")).
			WithArgs(orderID).
			WillReturnRows(orderRow(orderID, owner, 0, nil, "13.00"))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, order_id, menu_item_id, quantity")).
			WithArgs(orderID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "quantity"}))

		rec := serve(http.MethodGet, "/api/orders/"+orderID.String(), "", claimsWithRoles(stranger, models.RoleDeliveryCrew))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAssignOrderRequiresManager(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	body := fmt.Sprintf(`{"delivery_crew": %q, "order_status": 1}`, uuid.New())

	rec := serve(http.MethodPut, "/api/orders/"+orderID.String(), body, claimsWithRoles(uuid.New(), models.RoleCustomer))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignOrderRequiresBothFields(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	manager := claimsWithRoles(uuid.New(), models.RoleManager)

	for _, body := range []string{
		`{"order_status": 1}`,
		fmt.Sprintf(`{"delivery_crew": %q}`, uuid.New()),
		`{}`,
	} {
		rec := serve(http.MethodPut, "/api/orders/"+orderID.String(), body, manager)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignOrderRejectsOutOfRangeStatus(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	manager := claimsWithRoles(uuid.New(), models.RoleManager)
	body := fmt.Sprintf(`{"delivery_crew": %q, "order_status": 2}`, uuid.New())

	rec := serve(http.MethodPut, "/api/orders/"+orderID.String(), body, manager)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignOrderCrewMustHoldRole(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	crewID := uuid.New()
	manager := claimsWithRoles(uuid.New(), models.RoleManager)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(crewID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(crewID, models.RoleDeliveryCrew).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	body := fmt.Sprintf(`{"delivery_crew": %q, "order_status": 1}`, crewID)
	rec := serve(http.MethodPut, "/api/orders/"+orderID.String(), body, manager)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// no UPDATE was expected or executed
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignOrderSuccess(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	crewID := uuid.New()
	owner := uuid.New()
	manager := claimsWithRoles(uuid.New(), models.RoleManager)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(crewID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(crewID, models.RoleDeliveryCrew).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders")).
		WithArgs(orderID, crewID, models.StatusOutForDelivery).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, order_status, delivery_crew_id, total, created_at")).
		WithArgs(orderID).
		WillReturnRows(orderRow(orderID, owner, 0, crewID.String(), "13.00"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, order_id, menu_item_id, quantity")).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "quantity"}))

	body := fmt.Sprintf(`{"delivery_crew": %q, "order_status": 0}`, crewID)
	rec := serve(http.MethodPut, "/api/orders/"+orderID.String(), body, manager)
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
	require.NotNil(t, order.DeliveryCrew)
	require.Equal(t, crewID, *order.DeliveryCrew)
	require.Equal(t, models.StatusOutForDelivery, order.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetOrderStatusRequiresDeliveryCrew(t *testing.T) {
	orderID := uuid.New()

	for _, claims := range []*middlewares.Claims{
		claimsWithRoles(uuid.New(), models.RoleCustomer),
		claimsWithRoles(uuid.New(), models.RoleManager),
	} {
		mock := setupMockDB(t)
		rec := serve(http.MethodPatch, "/api/orders/"+orderID.String(), `{"order_status": 1}`, claims)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		// the status was never touched
		require.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestSetOrderStatusRejectsOutOfRangeStatus(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	crew := claimsWithRoles(uuid.New(), models.RoleDeliveryCrew)

	for _, body := range []string{`{"order_status": 7}`, `{"order_status": -1}`, `{}`} {
		rec := serve(http.MethodPatch, "/api/orders/"+orderID.String(), body, crew)
		require.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetOrderStatusDelivered(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	owner := uuid.New()
	assignedCrew := uuid.New()
	crew := claimsWithRoles(assignedCrew, models.RoleDeliveryCrew)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders")).
		WithArgs(orderID, models.StatusDelivered).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, order_status, delivery_crew_id, total, created_at")).
		WithArgs(orderID).
		WillReturnRows(orderRow(orderID, owner, 1, assignedCrew.String(), "13.00"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, order_id, menu_item_id, quantity")).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "menu_item_id", "quantity"}))

	rec := serve(http.MethodPatch, "/api/orders/"+orderID.String(), `{"order_status": 1}`, crew)
	require.Equal(t, http.StatusOK, rec.Code)

	var order models.Order
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&order))
	require.Equal(t, models.StatusDelivered, order.Status)
	require.NotNil(t, order.DeliveryCrew)
	require.Equal(t, assignedCrew, *order.DeliveryCrew)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOrderRequiresManager(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	rec := serve(http.MethodDelete, "/api/orders/"+orderID.String(), "", claimsWithRoles(uuid.New(), models.RoleDeliveryCrew))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOrder(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	manager := claimsWithRoles(uuid.New(), models.RoleManager)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders")).
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := serve(http.MethodDelete, "/api/orders/"+orderID.String(), "", manager)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteOrderNotFound(t *testing.T) {
	mock := setupMockDB(t)

	orderID := uuid.New()
	manager := claimsWithRoles(uuid.New(), models.RoleManager)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders")).
		WithArgs(orderID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := serve(http.MethodDelete, "/api/orders/"+orderID.String(), "", manager)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
