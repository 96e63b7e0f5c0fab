package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/littlelemon/database/dbhelper"
	"github.com/ray-remotestate/littlelemon/utils"
)

type menuItemInput struct {
	Title     *string          `json:"title"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	Inventory *int             `json:"inventory"`
}

func (in menuItemInput) validate(requireAll bool) (string, bool) {
	if requireAll && (in.Title == nil || in.UnitPrice == nil || in.Inventory == nil) {
		return "title, unit_price and inventory are required", false
	}
	if in.Title != nil && *in.Title == "" {
		return "title must not be empty", false
	}
	if in.UnitPrice != nil && !in.UnitPrice.IsPositive() {
		return "unit_price must be greater than zero", false
	}
	if in.Inventory != nil && *in.Inventory < 0 {
		return "inventory must not be negative", false
	}
	return "", true
}

func ListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := dbhelper.ListMenuItems()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query menu items")
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var input menuItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if msg, ok := input.validate(true); !ok {
		utils.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	id, err := dbhelper.CreateMenuItem(*input.Title, *input.UnitPrice, *input.Inventory)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to create menu item")
		return
	}

	item, err := dbhelper.GetMenuItem(id)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to read created menu item")
		return
	}
	utils.RespondJSON(w, http.StatusCreated, item)
}

func GetMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	item, err := dbhelper.GetMenuItem(id)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "menu item not found")
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query menu item")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	updateMenuItem(w, r, true)
}

func PatchMenuItem(w http.ResponseWriter, r *http.Request) {
	updateMenuItem(w, r, false)
}

// updateMenuItem serves both PUT (full replace) and PATCH (only supplied
// fields); PATCH merges over the stored row so one UPDATE covers both.
func updateMenuItem(w http.ResponseWriter, r *http.Request, requireAll bool) {
	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	var input menuItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if msg, ok := input.validate(requireAll); !ok {
		utils.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	item, err := dbhelper.GetMenuItem(id)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "menu item not found")
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to query menu item")
		return
	}

	if input.Title != nil {
		item.Title = *input.Title
	}
	if input.UnitPrice != nil {
		item.UnitPrice = *input.UnitPrice
	}
	if input.Inventory != nil {
		item.Inventory = *input.Inventory
	}

	updated, err := dbhelper.UpdateMenuItem(id, item.Title, item.UnitPrice, item.Inventory)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to update menu item")
		return
	}
	if !updated {
		utils.RespondError(w, http.StatusNotFound, "menu item not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	deleted, err := dbhelper.DeleteMenuItem(id)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to delete menu item")
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, "menu item not found")
		return
	}
	utils.RespondJSON(w, http.StatusNoContent, nil)
}

func parseIDVar(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}
