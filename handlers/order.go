package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ray-remotestate/littlelemon/database"
	"github.com/ray-remotestate/littlelemon/database/dbhelper"
	"github.com/ray-remotestate/littlelemon/middlewares"
	"github.com/ray-remotestate/littlelemon/models"
	"github.com/ray-remotestate/littlelemon/utils"
)

// ListOrders returns every order to staff and only the caller's own orders
// to customers.
func ListOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	var orders []models.Order
	var err error
	if isStaff(claims) {
		orders, err = dbhelper.ListOrders()
	} else {
		orders, err = dbhelper.ListOrdersByUser(claims.UserID)
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query orders")
		return
	}
	utils.RespondJSON(w, http.StatusOK, orders)
}

// CreateOrder converts the caller's cart into an order. The order row, its
// items and the cart deletion commit in one transaction; a concurrent call
// for the same user blocks on the locked cart lines and then finds an empty
// cart.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	var order models.Order
	txErr := database.Tx(func(tx *sql.Tx) error {
		var err error
		order, err = dbhelper.CreateOrderFromCart(tx, claims.UserID)
		return err
	})
	if errors.Is(txErr, dbhelper.ErrEmptyCart) {
		utils.RespondError(w, http.StatusBadRequest, dbhelper.ErrEmptyCart.Error())
		return
	}
	if txErr != nil {
		logrus.WithError(txErr).Error("failed to create order from cart")
		utils.RespondError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, order)
}

// GetOrder restricts customers to their own orders; managers and delivery
// crew may read any order, assigned to them or not.
func GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	orderID, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	order, err := dbhelper.GetOrder(orderID)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "order not found")
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query order")
		return
	}

	if !isStaff(claims) && order.UserID != claims.UserID {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order.Items, err = dbhelper.GetOrderItems(order.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query order items")
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}

// AssignOrder is the manager transition: both delivery_crew and
// order_status must be supplied, the crew user must exist and hold the
// delivery-crew role, and the status must be 0 or 1. Any violation rejects
// the whole call with no mutation.
func AssignOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !claims.HasRole(models.RoleManager) {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	type request struct {
		DeliveryCrew *uuid.UUID `json:"delivery_crew"`
		OrderStatus  *int       `json:"order_status"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.DeliveryCrew == nil || req.OrderStatus == nil {
		utils.RespondError(w, http.StatusBadRequest, "delivery_crew and order_status are both required")
		return
	}

	status := models.OrderStatus(*req.OrderStatus)
	if !status.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "order_status must be 0 or 1")
		return
	}

	crewExists, err := dbhelper.IsUserExistsByID(*req.DeliveryCrew)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to resolve delivery crew")
		return
	}
	if !crewExists {
		utils.RespondError(w, http.StatusNotFound, "delivery crew user not found")
		return
	}

	isCrew, err := dbhelper.UserHasRole(*req.DeliveryCrew, models.RoleDeliveryCrew)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to check delivery crew role")
		return
	}
	if !isCrew {
		utils.RespondError(w, http.StatusBadRequest, "user is not part of the delivery crew")
		return
	}

	updated, err := dbhelper.AssignDeliveryAndStatus(orderID, *req.DeliveryCrew, status)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update order")
		return
	}
	if !updated {
		utils.RespondError(w, http.StatusNotFound, "order not found")
		return
	}

	respondWithOrder(w, orderID)
}

// SetOrderStatus is the delivery-crew transition: only order_status moves,
// the assigned crew is untouched.
func SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !claims.HasRole(models.RoleDeliveryCrew) {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	type request struct {
		OrderStatus *int `json:"order_status"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.OrderStatus == nil {
		utils.RespondError(w, http.StatusBadRequest, "order_status is required")
		return
	}

	status := models.OrderStatus(*req.OrderStatus)
	if !status.IsValid() {
		utils.RespondError(w, http.StatusBadRequest, "order_status must be 0 or 1")
		return
	}

	updated, err := dbhelper.SetOrderStatus(orderID, status)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}
	if !updated {
		utils.RespondError(w, http.StatusNotFound, "order not found")
		return
	}

	respondWithOrder(w, orderID)
}

func DeleteOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}
	if !claims.HasRole(models.RoleManager) {
		utils.RespondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orderID, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	deleted, err := dbhelper.DeleteOrder(orderID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, "order not found")
		return
	}
	utils.RespondJSON(w, http.StatusNoContent, nil)
}

func isStaff(claims *middlewares.Claims) bool {
	return claims.HasRole(models.RoleManager) || claims.HasRole(models.RoleDeliveryCrew)
}

func respondWithOrder(w http.ResponseWriter, orderID uuid.UUID) {
	order, err := dbhelper.GetOrder(orderID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to read updated order")
		return
	}
	order.Items, err = dbhelper.GetOrderItems(order.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query order items")
		return
	}
	utils.RespondJSON(w, http.StatusOK, order)
}
