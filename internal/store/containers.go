package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/PpairNode/LibStock/internal/model"
)

// CreateContainer creates a container with the admin as its sole member.
func CreateContainer(ctx context.Context, db *sql.DB, name string, adminID int64) (*model.Container, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`INSERT INTO containers (name, admin_id) VALUES (?, ?)`,
		name, adminID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating container: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting container id: %w", err)
	}

	// The admin is always a member.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO container_members (container_id, user_id) VALUES (?, ?)`,
		id, adminID,
	)
	if err != nil {
		return nil, fmt.Errorf("adding admin as member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing container: %w", err)
	}

	return GetContainer(ctx, db, id)
}

// GetContainer returns a container by ID, including its member list.
func GetContainer(ctx context.Context, db *sql.DB, id int64) (*model.Container, error) {
	c := &model.Container{}
	err := db.QueryRowContext(ctx,
		`SELECT id, name, admin_id, created_at FROM containers WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &c.AdminID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting container: %w", err)
	}

	c.MemberIDs, err = containerMembers(ctx, db, id)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetContainerByName returns the container with the given name administered
// by adminID, or nil if there is none. Name comparison is exact-string.
func GetContainerByName(ctx context.Context, db *sql.DB, adminID int64, name string) (*model.Container, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM containers WHERE admin_id = ? AND name = ?`, adminID, name,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting container by name: %w", err)
	}
	return GetContainer(ctx, db, id)
}

// ListContainersForUser returns all containers the user is a member of.
func ListContainersForUser(ctx context.Context, db *sql.DB, userID int64) ([]model.Container, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT c.id, c.name, c.admin_id, c.created_at
		 FROM containers c
		 JOIN container_members m ON m.container_id = c.id
		 WHERE m.user_id = ?
		 ORDER BY c.name`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	defer rows.Close()

	var containers []model.Container
	for rows.Next() {
		var c model.Container
		if err := rows.Scan(&c.ID, &c.Name, &c.AdminID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning container: %w", err)
		}
		containers = append(containers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range containers {
		containers[i].MemberIDs, err = containerMembers(ctx, db, containers[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return containers, nil
}

// UpdateContainerName renames a container.
func UpdateContainerName(ctx context.Context, db *sql.DB, id int64, name string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE containers SET name = ? WHERE id = ?`, name, id,
	)
	if err != nil {
		return fmt.Errorf("updating container: %w", err)
	}
	return nil
}

// DeleteContainer deletes a container and cascades to all categories and
// items it owns. The cascade runs items, categories, members, container, in
// a single transaction.
func DeleteContainer(ctx context.Context, db *sql.DB, id int64) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE container_id = ?`, id); err != nil {
		return fmt.Errorf("deleting container items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE container_id = ?`, id); err != nil {
		return fmt.Errorf("deleting container categories: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM container_members WHERE container_id = ?`, id); err != nil {
		return fmt.Errorf("deleting container members: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM containers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting container: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing container delete: %w", err)
	}
	return nil
}

// containerMembers returns the member user IDs of a container.
func containerMembers(ctx context.Context, db *sql.DB, containerID int64) ([]int64, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT user_id FROM container_members WHERE container_id = ? ORDER BY user_id`,
		containerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing container members: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
