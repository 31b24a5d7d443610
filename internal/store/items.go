package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"

	"github.com/PpairNode/LibStock/internal/model"
)

const itemColumns = `id, container_id, category_id, owner, name, serie, description,
	value, date_created, date_added, location, creator, tags, image_path,
	comment, condition, number, edition`

// CreateItem inserts an item. The value is rounded to two decimal places and
// tags are persisted as a JSON array.
func CreateItem(ctx context.Context, db *sql.DB, item *model.Item) (*model.Item, error) {
	tags, err := marshalTags(item.Tags)
	if err != nil {
		return nil, err
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (container_id, category_id, owner, name, serie, description,
			value, date_created, date_added, location, creator, tags, image_path,
			comment, condition, number, edition)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ContainerID, item.CategoryID, item.Owner, item.Name, item.Serie,
		item.Description, round2(item.Value), item.DateCreated, item.DateAdded,
		item.Location, item.Creator, tags, item.ImagePath, item.Comment,
		item.Condition, item.Number, item.Edition,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, item.ContainerID, id)
}

// GetItem returns an item by ID, scoped to its container.
func GetItem(ctx context.Context, db *sql.DB, containerID, id int64) (*model.Item, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ? AND container_id = ?`,
		id, containerID,
	)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items in a container with their category names
// resolved. Items whose category no longer exists are still listed, with an
// empty category name.
func ListItems(ctx context.Context, db *sql.DB, containerID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT i.id, i.container_id, i.category_id, i.owner, i.name, i.serie,
			i.description, i.value, i.date_created, i.date_added, i.location,
			i.creator, i.tags, i.image_path, i.comment, i.condition, i.number,
			i.edition, COALESCE(c.name, '') AS category
		 FROM items i
		 LEFT JOIN categories c ON c.id = i.category_id
		 WHERE i.container_id = ?
		 ORDER BY i.id`, containerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var tags string
		if err := rows.Scan(&item.ID, &item.ContainerID, &item.CategoryID,
			&item.Owner, &item.Name, &item.Serie, &item.Description, &item.Value,
			&item.DateCreated, &item.DateAdded, &item.Location, &item.Creator,
			&tags, &item.ImagePath, &item.Comment, &item.Condition, &item.Number,
			&item.Edition, &item.Category); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		if err := unmarshalTags(tags, &item.Tags); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CountItems returns the number of items in a container.
func CountItems(ctx context.Context, db *sql.DB, containerID int64) (int64, error) {
	var count int64
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE container_id = ?`, containerID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return count, nil
}

// ListItemImagePaths returns the image paths of all items in a container.
func ListItemImagePaths(ctx context.Context, db *sql.DB, containerID int64) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT image_path FROM items WHERE container_id = ?`, containerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item image paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scanning image path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

// UpdateItem updates an item's mutable fields. DateAdded and Creator are
// never changed after creation. Reports whether a matching item existed.
func UpdateItem(ctx context.Context, db *sql.DB, item *model.Item) (bool, error) {
	tags, err := marshalTags(item.Tags)
	if err != nil {
		return false, err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE items SET category_id = ?, owner = ?, name = ?, serie = ?,
			description = ?, value = ?, date_created = ?, location = ?, tags = ?,
			image_path = ?, comment = ?, condition = ?, number = ?, edition = ?
		 WHERE id = ? AND container_id = ?`,
		item.CategoryID, item.Owner, item.Name, item.Serie, item.Description,
		round2(item.Value), item.DateCreated, item.Location, tags, item.ImagePath,
		item.Comment, item.Condition, item.Number, item.Edition,
		item.ID, item.ContainerID,
	)
	if err != nil {
		return false, fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking item update: %w", err)
	}
	return n > 0, nil
}

// DeleteItem deletes an item and returns it, or nil if it did not exist. The
// returned item lets the caller clean up the referenced image file.
func DeleteItem(ctx context.Context, db *sql.DB, containerID, id int64) (*model.Item, error) {
	item, err := GetItem(ctx, db, containerID, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	_, err = db.ExecContext(ctx,
		`DELETE FROM items WHERE id = ? AND container_id = ?`, id, containerID,
	)
	if err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}
	return item, nil
}

// scanItem scans a single item row without the resolved category name.
func scanItem(row *sql.Row) (*model.Item, error) {
	item := &model.Item{}
	var tags string
	err := row.Scan(&item.ID, &item.ContainerID, &item.CategoryID, &item.Owner,
		&item.Name, &item.Serie, &item.Description, &item.Value,
		&item.DateCreated, &item.DateAdded, &item.Location, &item.Creator,
		&tags, &item.ImagePath, &item.Comment, &item.Condition, &item.Number,
		&item.Edition)
	if err != nil {
		return nil, err
	}
	if err := unmarshalTags(tags, &item.Tags); err != nil {
		return nil, err
	}
	return item, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(data), nil
}

func unmarshalTags(data string, tags *[]string) error {
	if err := json.Unmarshal([]byte(data), tags); err != nil {
		return fmt.Errorf("decoding tags: %w", err)
	}
	return nil
}

// round2 rounds a value to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
