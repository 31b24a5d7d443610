package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/PpairNode/LibStock/internal/model"
)

// CreateCategory creates a category in a container.
func CreateCategory(ctx context.Context, db *sql.DB, containerID int64, name string) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (container_id, name) VALUES (?, ?)`,
		containerID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, containerID, id)
}

// GetCategory returns a category by ID, scoped to its container.
func GetCategory(ctx context.Context, db *sql.DB, containerID, id int64) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT id, container_id, name FROM categories WHERE id = ? AND container_id = ?`,
		id, containerID,
	).Scan(&c.ID, &c.ContainerID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	return c, nil
}

// GetCategoryByName returns the category with the given name in a container,
// compared case-insensitively, or nil if there is none.
func GetCategoryByName(ctx context.Context, db *sql.DB, containerID int64, name string) (*model.Category, error) {
	c := &model.Category{}
	err := db.QueryRowContext(ctx,
		`SELECT id, container_id, name FROM categories
		 WHERE container_id = ? AND name = ? COLLATE NOCASE`,
		containerID, name,
	).Scan(&c.ID, &c.ContainerID, &c.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category by name: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories in a container.
func ListCategories(ctx context.Context, db *sql.DB, containerID int64) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, container_id, name FROM categories WHERE container_id = ? ORDER BY id`,
		containerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.ContainerID, &c.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CountCategories returns the number of categories in a container.
func CountCategories(ctx context.Context, db *sql.DB, containerID int64) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE container_id = ?`, containerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting categories: %w", err)
	}
	return count, nil
}

// UpdateCategoryName renames a category. Reports whether a matching category
// existed.
func UpdateCategoryName(ctx context.Context, db *sql.DB, containerID, id int64, name string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ? AND container_id = ?`,
		name, id, containerID,
	)
	if err != nil {
		return false, fmt.Errorf("updating category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking category update: %w", err)
	}
	return n > 0, nil
}

// DeleteCategory deletes a category and all items referencing it, in a single
// transaction. Reports whether a matching category existed.
func DeleteCategory(ctx context.Context, db *sql.DB, containerID, id int64) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM items WHERE container_id = ? AND category_id = ?`,
		containerID, id,
	); err != nil {
		return false, fmt.Errorf("deleting category items: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND container_id = ?`,
		id, containerID,
	)
	if err != nil {
		return false, fmt.Errorf("deleting category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking category delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing category delete: %w", err)
	}
	return n > 0, nil
}
