// Package export implements bulk serialization of container subtrees into
// portable documents and their re-import with identifier remapping and
// name-conflict resolution.
package export

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/PpairNode/LibStock/internal/access"
	"github.com/PpairNode/LibStock/internal/media"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/store"
)

// Export serializes the requested containers into a portable document. The
// export is all-or-nothing: if access to any requested container is denied,
// no document is produced. With includeImages, each item's backing image
// file is inlined as base64; unreadable files degrade to an entry without
// image data.
func Export(ctx context.Context, db *sql.DB, blobs *media.Store, containerIDs []string, requester model.Identity, includeImages bool) (*Document, error) {
	doc := &Document{
		Version:    Version,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Containers: []ContainerBundle{},
	}

	for idx, rawID := range containerIDs {
		container, err := access.Authorize(ctx, db, rawID, requester)
		if err != nil {
			return nil, err
		}

		bundle := ContainerBundle{
			TempID:     fmt.Sprintf("container_%d", idx+1),
			Name:       container.Name,
			Categories: []CategoryBundle{},
			Items:      []ItemBundle{},
		}

		// Map real category ids to temp ids, scoped to this container.
		categories, err := store.ListCategories(ctx, db, container.ID)
		if err != nil {
			return nil, err
		}
		tempIDs := make(map[int64]string, len(categories))
		for catIdx, category := range categories {
			tempID := fmt.Sprintf("category_%d_%d", idx+1, catIdx+1)
			tempIDs[category.ID] = tempID
			bundle.Categories = append(bundle.Categories, CategoryBundle{
				TempID: tempID,
				Name:   category.Name,
			})
		}

		items, err := store.ListItems(ctx, db, container.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			bundle.Items = append(bundle.Items, exportItem(blobs, item, tempIDs, includeImages))
		}

		doc.Containers = append(doc.Containers, bundle)
	}

	return doc, nil
}

// exportItem builds the portable form of one item, inlining its image when
// requested and readable.
func exportItem(blobs *media.Store, item model.Item, tempIDs map[int64]string, includeImages bool) ItemBundle {
	bundle := ItemBundle{
		Name:        item.Name,
		Owner:       item.Owner,
		Serie:       item.Serie,
		Description: item.Description,
		Value:       item.Value,
		DateCreated: item.DateCreated,
		Location:    item.Location,
		Creator:     item.Creator,
		Tags:        item.Tags,
		Comment:     item.Comment,
		Condition:   item.Condition,
		Number:      item.Number,
		Edition:     item.Edition,
		ImagePath:   item.ImagePath,
	}

	// An unmapped category (deleted concurrently with the export) leaves
	// category_temp_id null; import skips such items.
	if tempID, ok := tempIDs[item.CategoryID]; ok {
		bundle.CategoryTempID = &tempID
	}

	if includeImages && item.ImagePath != "" && item.ImagePath != media.NoImage {
		data, err := blobs.Read(item.ImagePath)
		if err != nil {
			slog.Warn("skipping image during export", "image_path", item.ImagePath, "error", err)
		} else {
			bundle.ImageData = base64.StdEncoding.EncodeToString(data)
			bundle.ImageExtension = filepath.Ext(item.ImagePath)
		}
	}

	return bundle
}

// ContainerPreview summarizes what an export of one container would contain.
type ContainerPreview struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	CategoriesCount int64   `json:"categories_count"`
	ItemsCount      int64   `json:"items_count"`
	TotalSizeMB     float64 `json:"total_size_mb"`
}

// Preview computes per-container counts and the estimated image payload size
// without building the full document. Containers the requester cannot access
// are skipped.
func Preview(ctx context.Context, db *sql.DB, blobs *media.Store, containerIDs []string, requester model.Identity) ([]ContainerPreview, error) {
	previews := []ContainerPreview{}

	for _, rawID := range containerIDs {
		container, err := access.Authorize(ctx, db, rawID, requester)
		if errors.Is(err, access.ErrDenied) {
			continue
		}
		if err != nil {
			return nil, err
		}

		categories, err := store.CountCategories(ctx, db, container.ID)
		if err != nil {
			return nil, err
		}
		items, err := store.CountItems(ctx, db, container.ID)
		if err != nil {
			return nil, err
		}

		paths, err := store.ListItemImagePaths(ctx, db, container.ID)
		if err != nil {
			return nil, err
		}
		var totalSize int64
		for _, path := range paths {
			if path == "" || path == media.NoImage {
				continue
			}
			totalSize += blobs.Size(path)
		}

		previews = append(previews, ContainerPreview{
			ID:              container.ID,
			Name:            container.Name,
			CategoriesCount: categories,
			ItemsCount:      items,
			TotalSizeMB:     math.Round(float64(totalSize)/(1024*1024)*100) / 100,
		})
	}

	return previews, nil
}
