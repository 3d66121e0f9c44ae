package types

import (
	"errors"
	"fmt"
	"time"
)

var ErrUnsupportedFileType = errors.New("unsupported file type")
var ErrEmptyDocument = errors.New("document contains no extractable text")

// MetadataTemplate returns the expected metadata structure grouped by
// category, for form builders and documentation.
func MetadataTemplate() map[string][]string {
	return map[string][]string{
		"core_attributes": {
			"title", "category", "description", "tags", "keywords", "author",
		},
		"technical_attributes": {
			"date_created", "source", "file_type", "timestamp",
		},
	}
}

// ValidateMetadata checks the user-entered fields before ingestion. The
// loader-stamped fields (source, file_type, timestamp) are not required here
// because they are filled in after validation.
func ValidateMetadata(m Metadata) error {
	if m.Title == "" {
		return fmt.Errorf("missing required metadata field: title")
	}
	if m.Category == "" {
		return fmt.Errorf("missing required metadata field: category")
	}
	if m.Description == "" {
		return fmt.Errorf("missing required metadata field: description")
	}
	if len(m.Tags) == 0 {
		return fmt.Errorf("missing required metadata field: tags")
	}
	if len(m.Keywords) == 0 {
		return fmt.Errorf("missing required metadata field: keywords")
	}
	if m.DateCreated != "" {
		if _, err := time.Parse("2006-01-02", m.DateCreated); err != nil {
			if _, err := time.Parse(time.RFC3339, m.DateCreated); err != nil {
				return fmt.Errorf("date_created must be a valid ISO format date: %q", m.DateCreated)
			}
		}
	}
	return nil
}
