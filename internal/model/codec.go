package model

import (
	"encoding/json"
	"fmt"
)

// EVENTS!A:G column layout. The id/brand/slug columns duplicate fields of
// the dataJson payload so the store can filter rows without parsing every
// JSON blob.
const (
	ColID = iota
	ColBrandID
	ColTemplateID
	ColDataJSON
	ColCreatedAt
	ColSlug
	ColUpdatedAt
	EventRowWidth
)

// ParseEventRow decodes one EVENTS data row. A row without an id or dataJson
// cell yields (nil, nil): it is skippable noise, not an error. A row whose
// dataJson cell fails to parse yields an error so callers that matched the
// row by id can surface the corruption instead of silently dropping it.
func ParseEventRow(row []string) (*Event, error) {
	if len(row) <= ColDataJSON {
		return nil, nil
	}
	id, data := row[ColID], row[ColDataJSON]
	if id == "" || data == "" {
		return nil, nil
	}
	var e Event
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("event row %q: malformed dataJson: %w", id, err)
	}
	// First-class columns win over stale payload copies.
	e.ID = id
	if len(row) > ColBrandID && row[ColBrandID] != "" {
		e.BrandID = row[ColBrandID]
	}
	if len(row) > ColSlug && row[ColSlug] != "" {
		e.Slug = row[ColSlug]
	}
	if len(row) > ColCreatedAt && row[ColCreatedAt] != "" {
		e.CreatedAtISO = row[ColCreatedAt]
	}
	if len(row) > ColUpdatedAt && row[ColUpdatedAt] != "" {
		e.UpdatedAtISO = row[ColUpdatedAt]
	}
	return &e, nil
}

// BuildEventRow is the inverse of ParseEventRow.
func BuildEventRow(e *Event) ([]string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("event %q: marshal dataJson: %w", e.ID, err)
	}
	templateID := ""
	if e.TemplateID != nil {
		templateID = *e.TemplateID
	}
	row := make([]string, EventRowWidth)
	row[ColID] = e.ID
	row[ColBrandID] = e.BrandID
	row[ColTemplateID] = templateID
	row[ColDataJSON] = string(data)
	row[ColCreatedAt] = e.CreatedAtISO
	row[ColSlug] = e.Slug
	row[ColUpdatedAt] = e.UpdatedAtISO
	return row, nil
}
