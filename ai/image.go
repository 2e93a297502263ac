package ai

import (
	"strings"

	"world-entity-demo/backend/internal/models"
	"world-entity-demo/backend/pkg/config"
)

// ImageURLBuilder derives a Pollinations.AI image URL from an entity.
// The URL is returned to the caller, nothing is fetched.
type ImageURLBuilder struct {
	baseURL  string
	template string
}

// NewImageURLBuilder creates a builder. An empty template uses the default image prompt.
func NewImageURLBuilder(baseURL, template string) *ImageURLBuilder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = config.DefaultImageBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if strings.TrimSpace(template) == "" {
		template = config.DefaultPrompts().Image
	}
	return &ImageURLBuilder{baseURL: baseURL, template: template}
}

// Prompt renders the image prompt for an entity in a world
func (b *ImageURLBuilder) Prompt(world string, entity models.WorldEntity) string {
	return config.Render(b.template, map[string]string{
		"name":        entity.Name,
		"type":        entity.Type,
		"description": entity.Description,
		"world":       world,
	})
}

// URL returns the image URL for an entity in a world
func (b *ImageURLBuilder) URL(world string, entity models.WorldEntity) string {
	return b.baseURL + escapeComponent(b.Prompt(world, entity))
}

const upperHex = "0123456789ABCDEF"

// escapeComponent percent-encodes s as a single URI component. Only ASCII
// letters, digits and - _ . ! ~ * ' ( ) are left as-is.
func escapeComponent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreservedComponent(c) {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperHex[c>>4])
		sb.WriteByte(upperHex[c&0x0F])
	}
	return sb.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
