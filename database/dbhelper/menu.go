package dbhelper

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/littlelemon/database"
	"github.com/ray-remotestate/littlelemon/models"
)

func CreateMenuItem(title string, unitPrice decimal.Decimal, inventory int) (uuid.UUID, error) {
	var id uuid.UUID
	err := database.LittleLemon.QueryRow(`
		INSERT INTO menu_items (title, unit_price, inventory)
		VALUES ($1, $2, $3)
		RETURNING id`, title, unitPrice, inventory).Scan(&id)
	return id, err
}

func GetMenuItem(id uuid.UUID) (models.MenuItem, error) {
	var item models.MenuItem
	err := database.LittleLemon.QueryRow(`
		SELECT id, title, unit_price, inventory, created_at
		FROM menu_items
		WHERE id = $1`, id).
		Scan(&item.ID, &item.Title, &item.UnitPrice, &item.Inventory, &item.CreatedAt)
	return item, err
}

func ListMenuItems() ([]models.MenuItem, error) {
	rows, err := database.LittleLemon.Query(`
		SELECT id, title, unit_price, inventory, created_at
		FROM menu_items
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(&item.ID, &item.Title, &item.UnitPrice, &item.Inventory, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateMenuItem reports false when no row matched the id.
func UpdateMenuItem(id uuid.UUID, title string, unitPrice decimal.Decimal, inventory int) (bool, error) {
	res, err := database.LittleLemon.Exec(`
		UPDATE menu_items
		SET title = $2, unit_price = $3, inventory = $4
		WHERE id = $1`, id, title, unitPrice, inventory)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// DeleteMenuItem reports false when no row matched the id.
func DeleteMenuItem(id uuid.UUID) (bool, error) {
	res, err := database.LittleLemon.Exec(`DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
