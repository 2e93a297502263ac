package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"world-entity-demo/backend/internal/models"
)

// ErrInvalidEntityJSON means the model's output could not be read as an entity object
var ErrInvalidEntityJSON = errors.New("invalid JSON received from model")

// ParseWorldEntity parses raw model output into a WorldEntity.
//
// The top-level value must be a JSON object. Scalar fields that are not strings
// keep their JSON text; abilities is always a slice of strings, with non-string
// entries replaced by their compact JSON and a missing or non-array value
// becoming empty.
func ParseWorldEntity(raw string) (models.WorldEntity, error) {
	text := strings.TrimSpace(raw)
	if !gjson.Valid(text) {
		return models.WorldEntity{}, ErrInvalidEntityJSON
	}

	doc := gjson.Parse(text)
	if !doc.IsObject() {
		return models.WorldEntity{}, fmt.Errorf("%w: top-level value is %s", ErrInvalidEntityJSON, doc.Type)
	}

	return models.WorldEntity{
		Name:        textOf(doc.Get("name")),
		Type:        textOf(doc.Get("type")),
		Description: textOf(doc.Get("description")),
		Abilities:   abilitiesOf(doc.Get("abilities")),
	}, nil
}

func textOf(value gjson.Result) string {
	switch value.Type {
	case gjson.Null:
		return ""
	case gjson.String:
		return value.Str
	}
	return compactJSON(value.Raw)
}

func abilitiesOf(value gjson.Result) []string {
	abilities := []string{}
	if !value.IsArray() {
		return abilities
	}

	value.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			abilities = append(abilities, item.Str)
		} else {
			abilities = append(abilities, compactJSON(item.Raw))
		}
		return true
	})
	return abilities
}

func compactJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return raw
	}
	return buf.String()
}
