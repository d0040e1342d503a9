// Package schemas holds the JSON Schemas for exported artifacts.
package schemas

import _ "embed"

// RecordsSchema is the schema of a per-source JSON export.
//
//go:embed records.schema.json
var RecordsSchema string

// RecordsSchemaFile is the schema's path relative to the repository root.
const RecordsSchemaFile = "schemas/records.schema.json"
