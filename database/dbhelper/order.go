package dbhelper

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ray-remotestate/littlelemon/database"
	"github.com/ray-remotestate/littlelemon/models"
)

// ErrEmptyCart is returned when order creation finds no cart lines for the
// user.
var ErrEmptyCart = errors.New("no items in the cart to create an order")

// CreateOrderFromCart converts the user's cart into an order inside the
// caller's transaction: the cart lines are locked, the order and its items
// are inserted, and the cart is cleared. The total is computed from the
// current menu unit prices and frozen on the order row; later catalog price
// changes never touch it.
func CreateOrderFromCart(tx *sql.Tx, userID uuid.UUID) (models.Order, error) {
	rows, err := tx.Query(`
		SELECT c.menu_item_id, c.quantity, m.unit_price
		FROM cart_items c
		JOIN menu_items m ON m.id = c.menu_item_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
		FOR UPDATE OF c`, userID)
	if err != nil {
		return models.Order{}, err
	}

	type cartLine struct {
		menuItemID uuid.UUID
		quantity   int
		unitPrice  decimal.Decimal
	}

	var lines []cartLine
	for rows.Next() {
		var line cartLine
		if err := rows.Scan(&line.menuItemID, &line.quantity, &line.unitPrice); err != nil {
			rows.Close()
			return models.Order{}, err
		}
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return models.Order{}, err
	}

	if len(lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.unitPrice.Mul(decimal.NewFromInt(int64(line.quantity))))
	}

	order := models.Order{UserID: userID, Total: total}
	err = tx.QueryRow(`
		INSERT INTO orders (user_id, total)
		VALUES ($1, $2)
		RETURNING id, order_status, created_at`, userID, total).
		Scan(&order.ID, &order.Status, &order.CreatedAt)
	if err != nil {
		return models.Order{}, err
	}

	for _, line := range lines {
		item := models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: line.menuItemID,
			Quantity:   line.quantity,
		}
		err = tx.QueryRow(`
			INSERT INTO order_items (order_id, menu_item_id, quantity)
			VALUES ($1, $2, $3)
			RETURNING id`, item.OrderID, item.MenuItemID, item.Quantity).
			Scan(&item.ID)
		if err != nil {
			return models.Order{}, err
		}
		order.Items = append(order.Items, item)
	}

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE user_id = $1`, userID); err != nil {
		return models.Order{}, err
	}

	return order, nil
}

func GetOrder(orderID uuid.UUID) (models.Order, error) {
	var order models.Order
	var crew uuid.NullUUID
	err := database.LittleLemon.QueryRow(`
		SELECT id, user_id, order_status, delivery_crew_id, total, created_at
		FROM orders
		WHERE id = $1`, orderID).
		Scan(&order.ID, &order.UserID, &order.Status, &crew, &order.Total, &order.CreatedAt)
	if err != nil {
		return models.Order{}, err
	}
	if crew.Valid {
		order.DeliveryCrew = &crew.UUID
	}
	return order, nil
}

func GetOrderItems(orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := database.LittleLemon.Query(`
		SELECT id, order_id, menu_item_id, quantity
		FROM order_items
		WHERE order_id = $1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func ListOrders() ([]models.Order, error) {
	return listOrders(`
		SELECT id, user_id, order_status, delivery_crew_id, total, created_at
		FROM orders
		ORDER BY created_at DESC`)
}

func ListOrdersByUser(userID uuid.UUID) ([]models.Order, error) {
	return listOrders(`
		SELECT id, user_id, order_status, delivery_crew_id, total, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
}

func listOrders(query string, args ...interface{}) ([]models.Order, error) {
	rows, err := database.LittleLemon.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var crew uuid.NullUUID
		if err := rows.Scan(&order.ID, &order.UserID, &order.Status, &crew, &order.Total, &order.CreatedAt); err != nil {
			return nil, err
		}
		if crew.Valid {
			order.DeliveryCrew = &crew.UUID
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// AssignDeliveryAndStatus sets both fields together; reports false when no
// row matched the id.
func AssignDeliveryAndStatus(orderID, crewID uuid.UUID, status models.OrderStatus) (bool, error) {
	res, err := database.LittleLemon.Exec(`
		UPDATE orders
		SET delivery_crew_id = $2, order_status = $3
		WHERE id = $1`, orderID, crewID, status)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// SetOrderStatus mutates only the status; the assigned crew is untouched.
func SetOrderStatus(orderID uuid.UUID, status models.OrderStatus) (bool, error) {
	res, err := database.LittleLemon.Exec(`
		UPDATE orders
		SET order_status = $2
		WHERE id = $1`, orderID, status)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// DeleteOrder removes the order; its items go with it via ON DELETE CASCADE.
func DeleteOrder(orderID uuid.UUID) (bool, error) {
	res, err := database.LittleLemon.Exec(`DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}
