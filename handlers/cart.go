package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/littlelemon/database/dbhelper"
	"github.com/ray-remotestate/littlelemon/utils"
)

func ListCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	lines, err := dbhelper.ListCartLines(claims.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query cart")
		return
	}
	utils.RespondJSON(w, http.StatusOK, lines)
}

func AddToCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	type request struct {
		MenuItemID uuid.UUID `json:"menu_item_id"`
		Quantity   int       `json:"quantity"`
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if req.MenuItemID == uuid.Nil {
		utils.RespondError(w, http.StatusBadRequest, "menu_item_id is required")
		return
	}
	if req.Quantity < 1 {
		utils.RespondError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	item, err := dbhelper.GetMenuItem(req.MenuItemID)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "menu item not found")
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query menu item")
		return
	}

	// line price is fixed here; later catalog price changes do not touch it
	price := item.UnitPrice.Mul(decimal.NewFromInt(int64(req.Quantity)))
	if err := dbhelper.UpsertCartItem(claims.UserID, item.ID, req.Quantity, item.UnitPrice, price); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to add item to cart")
		return
	}

	utils.RespondMessage(w, http.StatusCreated, "item added to cart")
}

func ClearCart(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := dbhelper.ClearCart(claims.UserID); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}
	utils.RespondMessage(w, http.StatusOK, "all items removed from cart")
}

func RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	claims, ok := requireUser(w, r)
	if !ok {
		return
	}

	menuItemID, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	removed, err := dbhelper.RemoveCartItem(claims.UserID, menuItemID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to remove item from cart")
		return
	}
	if !removed {
		utils.RespondError(w, http.StatusNotFound, "item not in cart")
		return
	}
	utils.RespondMessage(w, http.StatusOK, "item removed from cart")
}
