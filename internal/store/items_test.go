package store

import (
	"context"
	"testing"
	"time"

	"github.com/PpairNode/LibStock/internal/model"
)

func TestCreateItemRoundsValueAndStoresTags(t *testing.T) {
	database, container := setupContainer(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, container.ID, "Consoles")

	item, err := CreateItem(ctx, database, &model.Item{
		ContainerID: container.ID,
		CategoryID:  cat.ID,
		Name:        "Switch",
		Owner:       "alice",
		Value:       12.345,
		Tags:        []string{"nintendo", "handheld"},
		DateAdded:   time.Now().UTC(),
		ImagePath:   "not-image.png",
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if item.Value != 12.35 {
		t.Errorf("expected value rounded to 12.35, got %v", item.Value)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "nintendo" {
		t.Errorf("unexpected tags: %v", item.Tags)
	}
}

func TestCreateItemNilTags(t *testing.T) {
	database, container := setupContainer(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, container.ID, "Consoles")

	item, err := CreateItem(ctx, database, &model.Item{
		ContainerID: container.ID,
		CategoryID:  cat.ID,
		Name:        "Switch",
		DateAdded:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if item.Tags == nil || len(item.Tags) != 0 {
		t.Errorf("expected empty tag list, got %v", item.Tags)
	}
}

func TestListItemsResolvesCategoryName(t *testing.T) {
	database, container := setupContainer(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, container.ID, "Consoles")
	CreateItem(ctx, database, &model.Item{
		ContainerID: container.ID, CategoryID: cat.ID, Name: "Switch",
		DateAdded: time.Now().UTC(),
	})

	items, err := ListItems(ctx, database, container.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Category != "Consoles" {
		t.Errorf("expected resolved category name, got %q", items[0].Category)
	}
}

func TestUpdateItemKeepsDateAddedAndCreator(t *testing.T) {
	database, container := setupContainer(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, container.ID, "Consoles")
	added := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	item, _ := CreateItem(ctx, database, &model.Item{
		ContainerID: container.ID, CategoryID: cat.ID, Name: "Switch",
		Creator: "alice", DateAdded: added,
	})

	item.Name = "Switch OLED"
	item.Value = 349.999
	ok, err := UpdateItem(ctx, database, item)
	if err != nil {
		t.Fatalf("UpdateItem: %v", err)
	}
	if !ok {
		t.Fatal("expected item to be updated")
	}

	got, _ := GetItem(ctx, database, container.ID, item.ID)
	if got.Name != "Switch OLED" {
		t.Errorf("expected updated name, got %q", got.Name)
	}
	if got.Value != 350.00 {
		t.Errorf("expected rounded value 350, got %v", got.Value)
	}
	if !got.DateAdded.Equal(added) {
		t.Errorf("expected date_added unchanged, got %v", got.DateAdded)
	}
	if got.Creator != "alice" {
		t.Errorf("expected creator unchanged, got %q", got.Creator)
	}
}

func TestDeleteItemReturnsDeletedItem(t *testing.T) {
	database, container := setupContainer(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, container.ID, "Consoles")
	item, _ := CreateItem(ctx, database, &model.Item{
		ContainerID: container.ID, CategoryID: cat.ID, Name: "Switch",
		ImagePath: "abc123.png", DateAdded: time.Now().UTC(),
	})

	deleted, err := DeleteItem(ctx, database, container.ID, item.ID)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if deleted == nil || deleted.ImagePath != "abc123.png" {
		t.Fatalf("expected deleted item with image path, got %+v", deleted)
	}

	if got, _ := GetItem(ctx, database, container.ID, item.ID); got != nil {
		t.Error("expected item to be gone")
	}

	// Deleting again reports not found.
	deleted, err = DeleteItem(ctx, database, container.ID, item.ID)
	if err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if deleted != nil {
		t.Error("expected nil for already-deleted item")
	}
}

func TestGetItemScopedToContainer(t *testing.T) {
	database, container := setupContainer(t)
	ctx := context.Background()

	cat, _ := CreateCategory(ctx, database, container.ID, "Consoles")
	item, _ := CreateItem(ctx, database, &model.Item{
		ContainerID: container.ID, CategoryID: cat.ID, Name: "Switch",
		DateAdded: time.Now().UTC(),
	})

	// Wrong container id does not leak the item.
	got, err := GetItem(ctx, database, container.ID+1, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got != nil {
		t.Error("expected nil when container id does not match")
	}
}
