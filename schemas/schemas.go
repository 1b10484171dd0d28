// Package schemas holds the embedded JSON Schemas for the persisted file
// formats: archived comparison outcomes and the ELO ratings store.
package schemas

import _ "embed"

//go:embed outcome.schema.json
var OutcomeSchemaJSON string

//go:embed ratings.schema.json
var RatingsSchemaJSON string
