package export

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PpairNode/LibStock/internal/media"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/store"
)

// Strategy selects how container name conflicts are resolved during import.
type Strategy string

const (
	// StrategySkip leaves the existing container alone and skips the
	// imported one entirely, including its categories and items.
	StrategySkip Strategy = "skip"
	// StrategyRename imports under the first free "name (n)" variant.
	StrategyRename Strategy = "rename"
	// StrategyReplace cascade-deletes the existing container first.
	StrategyReplace Strategy = "replace"
)

var (
	// ErrInvalidDocument indicates the uploaded file is not a well-formed
	// export document.
	ErrInvalidDocument = errors.New("invalid export document")
	// ErrUnsupportedVersion indicates a version tag mismatch.
	ErrUnsupportedVersion = errors.New("unsupported export version")
	// ErrUnknownStrategy indicates an unrecognized conflict strategy.
	ErrUnknownStrategy = errors.New("unknown conflict strategy")
)

// ParseStrategy validates a conflict strategy string. Empty defaults to
// rename.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "":
		return StrategyRename, nil
	case StrategySkip, StrategyRename, StrategyReplace:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// ImportedContainer summarizes one container created by an import. Counts
// are actual created totals; items whose category could not be resolved are
// reported in SkippedItems.
type ImportedContainer struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	CategoriesCount int    `json:"categories_count"`
	ItemsCount      int    `json:"items_count"`
	SkippedItems    int    `json:"skipped_items"`
}

// Import deserializes an export document and recreates its containers for
// the requester, who becomes admin and sole member of every imported
// container regardless of the original membership. Containers are processed
// independently; a single bad item never aborts its siblings.
func Import(ctx context.Context, db *sql.DB, blobs *media.Store, data []byte, requester model.Identity, strategy Strategy) ([]ImportedContainer, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if doc.Version != Version {
		return nil, fmt.Errorf("%w: got %q, expected %q", ErrUnsupportedVersion, doc.Version, Version)
	}

	imported := []ImportedContainer{}

	for _, bundle := range doc.Containers {
		name, skip, err := resolveConflict(ctx, db, bundle.Name, requester.ID, strategy)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}

		container, err := store.CreateContainer(ctx, db, name, requester.ID)
		if err != nil {
			return nil, err
		}

		// Map document temp ids to the freshly assigned category ids.
		realIDs := make(map[string]int64, len(bundle.Categories))
		for _, cat := range bundle.Categories {
			created, err := store.CreateCategory(ctx, db, container.ID, cat.Name)
			if err != nil {
				return nil, err
			}
			realIDs[cat.TempID] = created.ID
		}

		created, skipped := importItems(ctx, db, blobs, container.ID, bundle.Items, realIDs, requester)

		imported = append(imported, ImportedContainer{
			ID:              container.ID,
			Name:            name,
			CategoriesCount: len(bundle.Categories),
			ItemsCount:      created,
			SkippedItems:    skipped,
		})
	}

	return imported, nil
}

// resolveConflict applies the conflict strategy against containers the
// requester administers. It returns the final container name and whether
// the container should be skipped entirely.
func resolveConflict(ctx context.Context, db *sql.DB, name string, adminID int64, strategy Strategy) (string, bool, error) {
	existing, err := store.GetContainerByName(ctx, db, adminID, name)
	if err != nil {
		return "", false, err
	}
	if existing == nil {
		return name, false, nil
	}

	switch strategy {
	case StrategySkip:
		return "", true, nil
	case StrategyRename:
		for counter := 1; ; counter++ {
			candidate := fmt.Sprintf("%s (%d)", name, counter)
			conflict, err := store.GetContainerByName(ctx, db, adminID, candidate)
			if err != nil {
				return "", false, err
			}
			if conflict == nil {
				return candidate, false, nil
			}
		}
	case StrategyReplace:
		if err := store.DeleteContainer(ctx, db, existing.ID); err != nil {
			return "", false, err
		}
		return name, false, nil
	default:
		return "", false, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// importItems creates the bundle's items, skipping those whose category temp
// id has no mapping. Returns created and skipped counts.
func importItems(ctx context.Context, db *sql.DB, blobs *media.Store, containerID int64, items []ItemBundle, realIDs map[string]int64, requester model.Identity) (created, skipped int) {
	for _, bundle := range items {
		if bundle.CategoryTempID == nil {
			skipped++
			continue
		}
		categoryID, ok := realIDs[*bundle.CategoryTempID]
		if !ok {
			skipped++
			continue
		}

		number := bundle.Number
		if number <= 0 {
			number = 1
		}

		item := &model.Item{
			ContainerID: containerID,
			CategoryID:  categoryID,
			Owner:       bundle.Owner,
			Name:        bundle.Name,
			Serie:       bundle.Serie,
			Description: bundle.Description,
			Value:       bundle.Value,
			DateCreated: bundle.DateCreated,
			DateAdded:   time.Now().UTC(),
			Location:    bundle.Location,
			Creator:     requester.Username,
			Tags:        bundle.Tags,
			ImagePath:   materializeImage(blobs, bundle),
			Comment:     bundle.Comment,
			Condition:   bundle.Condition,
			Number:      number,
			Edition:     bundle.Edition,
		}

		if _, err := store.CreateItem(ctx, db, item); err != nil {
			slog.Warn("skipping item during import", "name", bundle.Name, "error", err)
			skipped++
			continue
		}
		created++
	}
	return created, skipped
}

// materializeImage writes the bundle's inlined image bytes to the media
// store under a fresh random filename. Any failure falls back to the plain
// image path carried by the bundle, or the no-image sentinel.
func materializeImage(blobs *media.Store, bundle ItemBundle) string {
	fallback := bundle.ImagePath
	if fallback == "" {
		fallback = media.NoImage
	}

	if bundle.ImageData == "" {
		return fallback
	}

	raw, err := base64.StdEncoding.DecodeString(bundle.ImageData)
	if err != nil {
		slog.Warn("failed to decode imported image", "name", bundle.Name, "error", err)
		return fallback
	}

	ext := bundle.ImageExtension
	if ext == "" {
		ext = ".png"
	}
	filename, err := media.NewFilename("import" + ext)
	if err != nil {
		slog.Warn("rejecting imported image extension", "extension", ext, "error", err)
		return fallback
	}

	if err := blobs.Save(filename, raw); err != nil {
		slog.Warn("failed to store imported image", "name", bundle.Name, "error", err)
		return fallback
	}
	return filename
}
