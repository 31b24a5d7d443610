package export

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/PpairNode/LibStock/internal/access"
	"github.com/PpairNode/LibStock/internal/db"
	"github.com/PpairNode/LibStock/internal/media"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/store"
)

type fixture struct {
	db        *sql.DB
	blobs     *media.Store
	alice     model.Identity
	bob       model.Identity
	container *model.Container
	category  *model.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	blobs, err := media.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	alice, err := store.CreateUser(ctx, database, "alice", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	bob, err := store.CreateUser(ctx, database, "bob", "hash")
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	container, err := store.CreateContainer(ctx, database, "Games", alice.ID)
	if err != nil {
		t.Fatalf("CreateContainer: %v", err)
	}
	category, err := store.CreateCategory(ctx, database, container.ID, "Consoles")
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	return &fixture{
		db:        database,
		blobs:     blobs,
		alice:     alice.Identity(),
		bob:       bob.Identity(),
		container: container,
		category:  category,
	}
}

func (f *fixture) addItem(t *testing.T, name, imagePath string) *model.Item {
	t.Helper()
	item, err := store.CreateItem(context.Background(), f.db, &model.Item{
		ContainerID: f.container.ID,
		CategoryID:  f.category.ID,
		Owner:       "alice",
		Name:        name,
		Value:       10,
		Creator:     "alice",
		Tags:        []string{"tag"},
		ImagePath:   imagePath,
		DateAdded:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	return item
}

func (f *fixture) containerID() string {
	return strconv.FormatInt(f.container.ID, 10)
}

func TestExportTempIDs(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "Switch", media.NoImage)
	ctx := context.Background()

	other, _ := store.CreateContainer(ctx, f.db, "Books", f.alice.ID)
	store.CreateCategory(ctx, f.db, other.ID, "Novels")

	doc, err := Export(ctx, f.db, f.blobs, []string{f.containerID(), strconv.FormatInt(other.ID, 10)}, f.alice, false)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	if doc.Version != Version {
		t.Errorf("expected version %q, got %q", Version, doc.Version)
	}
	if len(doc.Containers) != 2 {
		t.Fatalf("expected 2 containers, got %d", len(doc.Containers))
	}
	if doc.Containers[0].TempID != "container_1" || doc.Containers[1].TempID != "container_2" {
		t.Errorf("unexpected container temp ids: %q, %q", doc.Containers[0].TempID, doc.Containers[1].TempID)
	}
	if doc.Containers[0].Categories[0].TempID != "category_1_1" {
		t.Errorf("unexpected category temp id: %q", doc.Containers[0].Categories[0].TempID)
	}
	if doc.Containers[1].Categories[0].TempID != "category_2_1" {
		t.Errorf("unexpected category temp id: %q", doc.Containers[1].Categories[0].TempID)
	}

	item := doc.Containers[0].Items[0]
	if item.CategoryTempID == nil || *item.CategoryTempID != "category_1_1" {
		t.Errorf("expected item category temp id category_1_1, got %v", item.CategoryTempID)
	}
}

func TestExportDeniedForNonMember(t *testing.T) {
	f := newFixture(t)

	_, err := Export(context.Background(), f.db, f.blobs, []string{f.containerID()}, f.bob, true)
	if !errors.Is(err, access.ErrDenied) {
		t.Errorf("expected ErrDenied, got %v", err)
	}
}

func TestExportAllOrNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Bob owns a container; mixing it with alice's must deny the whole export.
	bobs, _ := store.CreateContainer(ctx, f.db, "Private", f.bob.ID)

	_, err := Export(ctx, f.db, f.blobs, []string{f.containerID(), strconv.FormatInt(bobs.ID, 10)}, f.alice, false)
	if !errors.Is(err, access.ErrDenied) {
		t.Errorf("expected ErrDenied for mixed ownership, got %v", err)
	}
}

func TestExportInlinesImages(t *testing.T) {
	f := newFixture(t)
	imageBytes := []byte("fake png bytes")
	f.blobs.Save("pic.png", imageBytes)
	f.addItem(t, "With Image", "pic.png")

	doc, err := Export(context.Background(), f.db, f.blobs, []string{f.containerID()}, f.alice, true)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	item := doc.Containers[0].Items[0]
	if item.ImageData != base64.StdEncoding.EncodeToString(imageBytes) {
		t.Errorf("unexpected image data: %q", item.ImageData)
	}
	if item.ImageExtension != ".png" {
		t.Errorf("expected extension .png, got %q", item.ImageExtension)
	}
}

func TestExportMissingImageFileDegrades(t *testing.T) {
	f := newFixture(t)
	// References a file that was deleted out-of-band.
	f.addItem(t, "Lost Image", "gone.png")

	doc, err := Export(context.Background(), f.db, f.blobs, []string{f.containerID()}, f.alice, true)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	item := doc.Containers[0].Items[0]
	if item.ImageData != "" || item.ImageExtension != "" {
		t.Errorf("expected no inlined image, got data=%d bytes ext=%q", len(item.ImageData), item.ImageExtension)
	}
	if item.ImagePath != "gone.png" {
		t.Errorf("expected plain image path preserved, got %q", item.ImagePath)
	}
}

func TestExportSentinelImageNotInlined(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "No Image", media.NoImage)

	doc, err := Export(context.Background(), f.db, f.blobs, []string{f.containerID()}, f.alice, true)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if doc.Containers[0].Items[0].ImageData != "" {
		t.Error("expected sentinel image not to be inlined")
	}
}

func TestExportUnmappableCategoryNullTempID(t *testing.T) {
	f := newFixture(t)
	f.addItem(t, "Orphan", media.NoImage)
	ctx := context.Background()

	// Delete the category row directly, leaving the item dangling, as a
	// concurrent delete during export would.
	if _, err := f.db.Exec(`DELETE FROM categories WHERE id = ?`, f.category.ID); err != nil {
		t.Fatalf("deleting category: %v", err)
	}

	doc, err := Export(ctx, f.db, f.blobs, []string{f.containerID()}, f.alice, false)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(doc.Containers[0].Items) != 1 {
		t.Fatalf("expected dangling item still exported, got %d items", len(doc.Containers[0].Items))
	}
	if tempID := doc.Containers[0].Items[0].CategoryTempID; tempID != nil {
		t.Errorf("expected null category temp id, got %q", *tempID)
	}
}

func TestPreviewCountsAndSize(t *testing.T) {
	f := newFixture(t)
	f.blobs.Save("a.png", make([]byte, 1024*1024))
	f.blobs.Save("b.png", make([]byte, 512*1024))
	f.addItem(t, "A", "a.png")
	f.addItem(t, "B", "b.png")
	f.addItem(t, "C", "missing.png")
	f.addItem(t, "D", media.NoImage)

	previews, err := Preview(context.Background(), f.db, f.blobs, []string{f.containerID()}, f.alice)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(previews) != 1 {
		t.Fatalf("expected 1 preview, got %d", len(previews))
	}

	p := previews[0]
	if p.CategoriesCount != 1 {
		t.Errorf("expected 1 category, got %d", p.CategoriesCount)
	}
	if p.ItemsCount != 4 {
		t.Errorf("expected 4 items, got %d", p.ItemsCount)
	}
	// Missing and sentinel files contribute 0 bytes.
	if p.TotalSizeMB != 1.5 {
		t.Errorf("expected 1.5 MB, got %v", p.TotalSizeMB)
	}
}

func TestPreviewSkipsDeniedContainers(t *testing.T) {
	f := newFixture(t)

	previews, err := Preview(context.Background(), f.db, f.blobs, []string{f.containerID()}, f.bob)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(previews) != 0 {
		t.Errorf("expected denied container to be skipped, got %d previews", len(previews))
	}
}
