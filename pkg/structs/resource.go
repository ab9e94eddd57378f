package structs

import (
	"strings"
)

// ResourceType is the kind of downloadable artifact we install.
type ResourceType string

const (
	ResourceZim   ResourceType = "zim"
	ResourceMap   ResourceType = "map"
	ResourceModel ResourceType = "model"
)

func ToResourceType(s string) ResourceType {
	switch strings.ToLower(s) {
	case "zim":
		return ResourceZim
	case "map":
		return ResourceMap
	case "model":
		return ResourceModel
	default:
		return ""
	}
}

// InstalledResource records one successfully installed artifact.
// Immutable after creation, except for deletion.
type InstalledResource struct {
	ID            string       `json:"id"`
	Type          ResourceType `json:"type"`
	CollectionRef string       `json:"collection_ref"`
	Version       string       `json:"version"`
	SourceURL     string       `json:"source_url"`
	FilePath      string       `json:"file_path"`
	SizeBytes     int64        `json:"size_bytes"`
	InstalledAt   int64        `json:"installed_at"`
}
