package model

import "time"

// Item is a single inventory record with descriptive metadata and an
// optional image stored in the media directory.
type Item struct {
	ID          int64     `json:"id"`
	ContainerID int64     `json:"container_id"`
	CategoryID  int64     `json:"category_id"`
	Owner       string    `json:"owner"`
	Name        string    `json:"name"`
	Serie       string    `json:"serie"`
	Description string    `json:"description"`
	Value       float64   `json:"value"`
	DateCreated string    `json:"date_created"`
	DateAdded   time.Time `json:"date_added"`
	Location    string    `json:"location"`
	Creator     string    `json:"creator"`
	Tags        []string  `json:"tags"`
	ImagePath   string    `json:"image_path"`
	Comment     string    `json:"comment"`
	Condition   string    `json:"condition"`
	Number      int64     `json:"number"`
	Edition     string    `json:"edition"`

	// Category is the resolved category name, filled on listings.
	Category string `json:"category,omitempty"`
}

// Field size limits, shared by handlers and the import engine.
const (
	MaxNameLen = 256
	MaxTextLen = 4096
	MaxTags    = 10
)
