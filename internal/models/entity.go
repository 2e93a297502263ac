package models

// WorldEntity is the structured record extracted from model output.
// Abilities is never nil once normalized.
type WorldEntity struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Abilities   []string `json:"abilities"`
	Image       string   `json:"image,omitempty"`
}

// EntityRequest is the body of POST /api/stage2 and POST /api/world
type EntityRequest struct {
	World string `json:"world"`
	Name  string `json:"name"`
}

// EntityResponse wraps a generated entity
type EntityResponse struct {
	WorldEntity WorldEntity `json:"worldEntity"`
}
