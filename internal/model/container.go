package model

import (
	"slices"
	"time"
)

// Container is a top-level collection of categories and items, owned by one
// admin and shared with member users. The admin is always a member.
type Container struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	AdminID   int64     `json:"admin_id"`
	MemberIDs []int64   `json:"member_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// HasMember reports whether the user may access the container.
func (c *Container) HasMember(userID int64) bool {
	return userID == c.AdminID || slices.Contains(c.MemberIDs, userID)
}

// Category is a named grouping of items within one container.
type Category struct {
	ID          int64  `json:"id"`
	ContainerID int64  `json:"container_id"`
	Name        string `json:"name"`
}
