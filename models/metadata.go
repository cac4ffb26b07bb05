package models

// PlanMetadata is written as plan_metadata.json for every processed plan.
// Field order matches the published layout.
type PlanMetadata struct {
	BasicInfo          BasicInfo          `json:"basic_info"`
	DocumentsInventory DocumentsInventory `json:"documents_inventory"`
	SearchKeywords     []string           `json:"search_keywords"`
	ProcessingMetadata ProcessingMetadata `json:"processing_metadata"`
}

// BasicInfo holds the fields copied from the raw record.
// Raw values are kept verbatim, so a missing key is written as null.
type BasicInfo struct {
	PlanNumber     any    `json:"plan_number"`
	PlanID         any    `json:"plan_id"`
	City           any    `json:"city"`
	Status         any    `json:"status"`
	StatusDate     string `json:"status_date"`
	PlanType       any    `json:"plan_type"`
	RelationType   any    `json:"relation_type"`
	ProcessingDate string `json:"processing_date"`
}

// DocumentsInventory lists the document categories present in the source.
// Absent categories are omitted, never written as null.
type DocumentsInventory struct {
	Takanon       *RegulationDoc `json:"takanon,omitempty"`
	Nispachim     []Appendix     `json:"nispachim,omitempty"`
	Tasritim      []Drawing      `json:"tasritim,omitempty"`
	MMG           *GeoData       `json:"mmg,omitempty"`
	GovernmentMap *MapLink       `json:"government_map,omitempty"`
}

type RegulationDoc struct {
	Available   bool `json:"available"`
	Path        any  `json:"path"`
	Description any  `json:"description"`
}

type Appendix struct {
	Type any `json:"type"`
	Path any `json:"path"`
	Code any `json:"code"`
}

type Drawing struct {
	Type any `json:"type"`
	Path any `json:"path"`
}

type GeoData struct {
	Available   bool `json:"available"`
	Path        any  `json:"path"`
	Description any  `json:"description"`
}

type MapLink struct {
	URL         any `json:"url"`
	Description any `json:"description"`
}

// ProcessingMetadata is the fixed provenance block of a plan.
type ProcessingMetadata struct {
	SourceSystem      string `json:"source_system"`
	ExtractionDate    string `json:"extraction_date"`
	ProcessingVersion string `json:"processing_version"`
	Status            string `json:"status"`
}

// CityMetadata is written as city_metadata.json once per city.
type CityMetadata struct {
	CityInfo       CityInfo           `json:"city_info"`
	ProcessingInfo CityProcessingInfo `json:"processing_info"`
}

type CityInfo struct {
	Name          string `json:"name"`
	NameEN        string `json:"name_en"`
	CityCode      int    `json:"city_code"`
	TotalPlans    int    `json:"total_plans"`
	LastProcessed string `json:"last_processed"`
}

type CityProcessingInfo struct {
	Source           string `json:"source"`
	ProcessorVersion string `json:"processor_version"`
	ExtractionDate   string `json:"extraction_date"`
}
