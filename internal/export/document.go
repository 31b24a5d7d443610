package export

import (
	"fmt"
	"time"
)

// Version is the export document format version. Import requires an exact
// match; there is no cross-version migration.
const Version = "1.0"

// Document is the portable export envelope. It is self-contained: internal
// database identifiers are replaced with document-local temporary ids
// (container_<n>, category_<n>_<m>) that import resolves back to fresh
// database identifiers.
type Document struct {
	Version    string            `json:"version"`
	ExportDate string            `json:"export_date"`
	Containers []ContainerBundle `json:"containers"`
}

// ContainerBundle is one exported container with its categories and items.
type ContainerBundle struct {
	TempID     string           `json:"temp_id"`
	Name       string           `json:"name"`
	Categories []CategoryBundle `json:"categories"`
	Items      []ItemBundle     `json:"items"`
}

// CategoryBundle is one exported category.
type CategoryBundle struct {
	TempID string `json:"temp_id"`
	Name   string `json:"name"`
}

// ItemBundle is one exported item. CategoryTempID is null when the item's
// category could not be mapped (e.g. deleted concurrently with the export);
// import skips such items.
type ItemBundle struct {
	CategoryTempID *string  `json:"category_temp_id"`
	Name           string   `json:"name"`
	Owner          string   `json:"owner"`
	Serie          string   `json:"serie"`
	Description    string   `json:"description"`
	Value          float64  `json:"value"`
	DateCreated    string   `json:"date_created"`
	Location       string   `json:"location"`
	Creator        string   `json:"creator"`
	Tags           []string `json:"tags"`
	Comment        string   `json:"comment"`
	Condition      string   `json:"condition"`
	Number         int64    `json:"number"`
	Edition        string   `json:"edition"`
	ImagePath      string   `json:"image_path"`
	ImageData      string   `json:"image_data,omitempty"`
	ImageExtension string   `json:"image_extension,omitempty"`
}

// Filename returns the download filename for an export taken at the given
// time.
func Filename(now time.Time) string {
	return fmt.Sprintf("libstock_export_%s.json", now.Format("20060102_150405"))
}
