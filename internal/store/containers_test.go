package store

import (
	"context"
	"testing"
	"time"

	"github.com/PpairNode/LibStock/internal/db"
	"github.com/PpairNode/LibStock/internal/model"
)

func TestCreateContainerSeedsAdminMember(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, _ := CreateUser(ctx, database, "alice", "hash")
	c, err := CreateContainer(ctx, database, "Games", user.ID)
	if err != nil {
		t.Fatalf("CreateContainer: %v", err)
	}

	if c.AdminID != user.ID {
		t.Errorf("expected admin %d, got %d", user.ID, c.AdminID)
	}
	if !c.HasMember(user.ID) {
		t.Error("expected admin to be a member")
	}
	if len(c.MemberIDs) != 1 {
		t.Errorf("expected 1 member, got %d", len(c.MemberIDs))
	}
}

func TestContainerNameUniquePerAdmin(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "hash")
	bob, _ := CreateUser(ctx, database, "bob", "hash")

	if _, err := CreateContainer(ctx, database, "Games", alice.ID); err != nil {
		t.Fatalf("CreateContainer: %v", err)
	}
	if _, err := CreateContainer(ctx, database, "Games", alice.ID); err == nil {
		t.Error("expected unique constraint error for duplicate name under same admin")
	}
	// Same name under a different admin is fine.
	if _, err := CreateContainer(ctx, database, "Games", bob.ID); err != nil {
		t.Errorf("expected same name under different admin to succeed: %v", err)
	}
}

func TestGetContainerByName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "hash")
	created, _ := CreateContainer(ctx, database, "Games", alice.ID)

	got, err := GetContainerByName(ctx, database, alice.ID, "Games")
	if err != nil {
		t.Fatalf("GetContainerByName: %v", err)
	}
	if got == nil || got.ID != created.ID {
		t.Fatalf("expected container %d, got %+v", created.ID, got)
	}

	// Exact-string comparison: case matters.
	got, _ = GetContainerByName(ctx, database, alice.ID, "games")
	if got != nil {
		t.Error("expected nil for different-case name")
	}
}

func TestDeleteContainerCascades(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "hash")
	keep, _ := CreateContainer(ctx, database, "Keep", alice.ID)
	doomed, _ := CreateContainer(ctx, database, "Doomed", alice.ID)

	keepCat, _ := CreateCategory(ctx, database, keep.ID, "Books")
	doomedCat, _ := CreateCategory(ctx, database, doomed.ID, "Books")

	now := time.Now().UTC()
	CreateItem(ctx, database, &model.Item{ContainerID: keep.ID, CategoryID: keepCat.ID, Name: "Kept", DateAdded: now})
	CreateItem(ctx, database, &model.Item{ContainerID: doomed.ID, CategoryID: doomedCat.ID, Name: "Gone", DateAdded: now})

	if err := DeleteContainer(ctx, database, doomed.ID); err != nil {
		t.Fatalf("DeleteContainer: %v", err)
	}

	if c, _ := GetContainer(ctx, database, doomed.ID); c != nil {
		t.Error("expected container to be deleted")
	}
	if cats, _ := ListCategories(ctx, database, doomed.ID); len(cats) != 0 {
		t.Errorf("expected 0 categories after cascade, got %d", len(cats))
	}
	if items, _ := ListItems(ctx, database, doomed.ID); len(items) != 0 {
		t.Errorf("expected 0 items after cascade, got %d", len(items))
	}

	// No cross-container leakage.
	if cats, _ := ListCategories(ctx, database, keep.ID); len(cats) != 1 {
		t.Errorf("expected sibling container categories untouched, got %d", len(cats))
	}
	if items, _ := ListItems(ctx, database, keep.ID); len(items) != 1 {
		t.Errorf("expected sibling container items untouched, got %d", len(items))
	}
}

func TestListContainersForUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice, _ := CreateUser(ctx, database, "alice", "hash")
	bob, _ := CreateUser(ctx, database, "bob", "hash")

	CreateContainer(ctx, database, "Games", alice.ID)
	CreateContainer(ctx, database, "Books", bob.ID)

	containers, err := ListContainersForUser(ctx, database, alice.ID)
	if err != nil {
		t.Fatalf("ListContainersForUser: %v", err)
	}
	if len(containers) != 1 || containers[0].Name != "Games" {
		t.Errorf("expected only alice's container, got %+v", containers)
	}
}
