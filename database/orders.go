package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"learnhub-storefront-api/models"
)

func (c *Connection) InsertOrder(order models.Order) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("error marshaling order items: %v", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO orders (id, reference, username, items_json, total_amount, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
	`, order.ID, order.Reference, order.Username, string(itemsJSON),
		order.TotalAmount, order.Status)
	if err != nil {
		return fmt.Errorf("error inserting order: %v", err)
	}
	return nil
}

func (c *Connection) UpdateOrderStatus(orderID, status string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := c.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	if err != nil {
		return fmt.Errorf("error updating order status: %v", err)
	}
	return nil
}

func (c *Connection) GetRecentOrders(username string, limit int) ([]models.Order, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, `
		SELECT id, reference, username, items_json, total_amount, status, created_at
		FROM orders
		WHERE username = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, username, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying orders: %v", err)
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var order models.Order
		var itemsJSON string
		if err := rows.Scan(&order.ID, &order.Reference, &order.Username,
			&itemsJSON, &order.TotalAmount, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning order: %v", err)
		}
		if err := json.Unmarshal([]byte(itemsJSON), &order.Items); err != nil {
			log.Printf("Error parsing items json for order %s: %v", order.ID, err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}
