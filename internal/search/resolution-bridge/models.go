package resolutionbridge

import (
	"encoding/json"
	"time"
)

// CommandSetSearchInput is the engine command that receives a search request.
const CommandSetSearchInput = "set_search_input"

// Payload is the wire shape of a search request. Terms are always a list,
// even for a single individual entry.
type Payload struct {
	SearchInput   []string `json:"searchInput"`
	SearchType    string   `json:"searchType"`
	Jurisdictions []int    `json:"jurisdictions,omitempty"`
}

// EngineResponse is the engine's acknowledgement, kept as raw JSON.
type EngineResponse struct {
	Command  string          `json:"command"`
	Ack      json.RawMessage `json:"ack"`
	Duration time.Duration   `json:"duration"`
}

const payloadSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["searchInput", "searchType"],
	"additionalProperties": false,
	"properties": {
		"searchInput": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		},
		"searchType": {"type": "string", "enum": ["individual", "batch"]},
		"jurisdictions": {
			"type": "array",
			"uniqueItems": true,
			"items": {"type": "integer"}
		}
	},
	"if": {"properties": {"searchType": {"const": "individual"}}},
	"then": {"properties": {"searchInput": {"maxItems": 1}}}
}`
