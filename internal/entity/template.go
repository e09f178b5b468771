package entity

// Template is a reusable, named set of extraction fields.
// Name is the unique key; saving under an existing name replaces the fields.
type Template struct {
	Name   string            `json:"name"`
	Fields []ExtractionField `json:"fields"`
}
