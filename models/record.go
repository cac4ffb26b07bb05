// Package models defines the data structures read from and written to a planning repository.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Raw keys used by the scraped plan_details.json files.
const (
	KeyPlanNumber   = "planNumber"
	KeyPlanID       = "planId"
	KeyCityText     = "cityText"
	KeyStatus       = "status"
	KeyStatusDate   = "statusDate"
	KeyMahut        = "mahut"
	KeyRelationType = "relationType"
	KeyDocumentsSet = "documentsSet"
)

// RawPlanRecord is a plan_details.json object decoded verbatim.
// Every accessor tolerates a missing key.
type RawPlanRecord map[string]any

// DecodePlanRecord decodes a plan_details.json payload.
// The payload must be a JSON object; numbers are kept as json.Number so they round-trip unchanged.
func DecodePlanRecord(data []byte) (RawPlanRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level JSON value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", jsonKind(v))
	}
	return RawPlanRecord(obj), nil
}

// Get returns the raw value stored under key and whether the key was present.
func (r RawPlanRecord) Get(key string) (any, bool) {
	v, ok := r[key]
	return v, ok
}

func (r RawPlanRecord) PlanNumber() any   { return r[KeyPlanNumber] }
func (r RawPlanRecord) PlanID() any       { return r[KeyPlanID] }
func (r RawPlanRecord) CityText() any     { return r[KeyCityText] }
func (r RawPlanRecord) Status() any       { return r[KeyStatus] }
func (r RawPlanRecord) Mahut() any        { return r[KeyMahut] }
func (r RawPlanRecord) RelationType() any { return r[KeyRelationType] }

// StatusDate returns the status date with surrounding whitespace removed.
// A missing or null value is the empty string.
func (r RawPlanRecord) StatusDate() string {
	v, ok := r[KeyStatusDate]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(Text(v))
}

// HasStatusDate reports whether statusDate is present and not null.
func (r RawPlanRecord) HasStatusDate() bool {
	v, ok := r[KeyStatusDate]
	return ok && v != nil
}

// DocumentsSet returns the nested documents object.
// A missing or null documentsSet is an empty set; any other non-object value is an error.
func (r RawPlanRecord) DocumentsSet() (DocumentsSet, error) {
	v, ok := r[KeyDocumentsSet]
	if !ok || v == nil {
		return DocumentsSet{}, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an object, got %s", KeyDocumentsSet, jsonKind(v))
	}
	return DocumentsSet(obj), nil
}

// Truthy mirrors how the scraper treats "present" values: nil, false, zero,
// empty strings, empty lists and empty objects all count as absent.
func Truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	case float64:
		return x != 0
	case int:
		return x != 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

// Text renders a raw scalar for human-readable output.
// Strings are returned as-is, nil becomes "", anything else is its JSON text.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
