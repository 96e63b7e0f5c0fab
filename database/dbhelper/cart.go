package dbhelper

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/littlelemon/database"
	"github.com/ray-remotestate/littlelemon/models"
)

// UpsertCartItem keeps one line per (user, menu item): re-adding the same
// item replaces quantity and price instead of creating a duplicate.
func UpsertCartItem(userID, menuItemID uuid.UUID, quantity int, unitPrice, price decimal.Decimal) error {
	_, err := database.LittleLemon.Exec(`
		INSERT INTO cart_items (user_id, menu_item_id, quantity, unit_price, price)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, menu_item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, unit_price = EXCLUDED.unit_price, price = EXCLUDED.price`,
		userID, menuItemID, quantity, unitPrice, price)
	return err
}

func ListCartLines(userID uuid.UUID) ([]models.CartLine, error) {
	rows, err := database.LittleLemon.Query(`
		SELECT c.menu_item_id, m.title, c.unit_price, c.quantity, c.price
		FROM cart_items c
		JOIN menu_items m ON m.id = c.menu_item_id
		WHERE c.user_id = $1
		ORDER BY c.created_at`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		if err := rows.Scan(&line.MenuItemID, &line.Title, &line.UnitPrice, &line.Quantity, &line.Price); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// RemoveCartItem reports false when the user had no line for the item.
func RemoveCartItem(userID, menuItemID uuid.UUID) (bool, error) {
	res, err := database.LittleLemon.Exec(`
		DELETE FROM cart_items
		WHERE user_id = $1 AND menu_item_id = $2`, userID, menuItemID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func ClearCart(userID uuid.UUID) error {
	_, err := database.LittleLemon.Exec(`DELETE FROM cart_items WHERE user_id = $1`, userID)
	return err
}
