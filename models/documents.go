package models

import "fmt"

// Raw documentsSet members.
const (
	DocTakanon   = "takanon"   // regulation text
	DocNispachim = "nispachim" // appendices
	DocTasritim  = "tasritim"  // drawings
	DocMMG       = "mmg"       // geographic data
	DocMap       = "map"       // government map link
)

// Raw keys inside a single document entry.
const (
	EntryPath = "path"
	EntryInfo = "info"
	EntryCode = "codeMismach"
)

// DocumentsSet is the nested documentsSet object of a raw record.
type DocumentsSet map[string]any

// DocumentEntry is one raw document description.
type DocumentEntry map[string]any

// Present reports whether a category holds a truthy value.
func (d DocumentsSet) Present(key string) bool {
	v, ok := d[key]
	return ok && Truthy(v)
}

// Entry returns a single-valued category as an object.
func (d DocumentsSet) Entry(key string) (DocumentEntry, error) {
	v := d[key]
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an object, got %s", key, jsonKind(v))
	}
	return DocumentEntry(obj), nil
}

// Entries returns a list category in source order.
// A missing or null list yields no entries.
func (d DocumentsSet) Entries(key string) ([]DocumentEntry, error) {
	v, ok := d[key]
	if !ok || v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an array, got %s", key, jsonKind(v))
	}

	entries := make([]DocumentEntry, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected an object, got %s", key, i, jsonKind(item))
		}
		entries = append(entries, DocumentEntry(obj))
	}
	return entries, nil
}

func (e DocumentEntry) Path() any { return e[EntryPath] }
func (e DocumentEntry) Info() any { return e[EntryInfo] }
func (e DocumentEntry) Code() any { return e[EntryCode] }

// InfoOr returns info, or fallback when the key is missing entirely.
func (e DocumentEntry) InfoOr(fallback string) any {
	if v, ok := e[EntryInfo]; ok {
		return v
	}
	return fallback
}
