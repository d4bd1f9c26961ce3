package workflow

import (
	"encoding/json"
	"math/rand"
)

type HandoffTarget string

const (
	HandoffMedical HandoffTarget = "medical"
	HandoffPolice  HandoffTarget = "police"
)

// RoutingVerdict is the guidance stage's answer: either a direct response
// (non-critical) or an escalation flag with a suggested handoff target.
type RoutingVerdict struct {
	IsCritical    bool          `json:"is_critical"`
	Response      string        `json:"response"`
	HandoffTarget HandoffTarget `json:"handoff_target"`
}

type RequestType string

const (
	RequestMedical      RequestType = "medical"
	RequestPolice       RequestType = "police"
	RequestCatastrophic RequestType = "catastrophic"
)

// DispatchVerdict assigns a critical message to exactly one lane. CaseID is a
// correlation token for the logs, never a storage key.
type DispatchVerdict struct {
	CaseID      string      `json:"case_id"`
	RequestType RequestType `json:"request_type"`
	RequestText string      `json:"request_text"`
	Timestamp   string      `json:"timestamp"`
}

const caseIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewCaseID returns a short random correlation token.
func NewCaseID() string {
	b := make([]byte, 4)
	for i := range b {
		b[i] = caseIDAlphabet[rand.Intn(len(caseIDAlphabet))]
	}
	return string(b)
}

var routingVerdictSchema = json.RawMessage(`
{
  "type": "object",
  "properties": {
    "is_critical": { "type": "boolean" },
    "response": { "type": "string" },
    "handoff_target": { "type": "string", "enum": ["", "medical", "police"] }
  },
  "required": ["is_critical", "response", "handoff_target"],
  "additionalProperties": false
}
`)

var dispatchVerdictSchema = json.RawMessage(`
{
  "type": "object",
  "properties": {
    "request_type": { "type": "string", "enum": ["medical", "police", "catastrophic"] },
    "request_text": { "type": "string" }
  },
  "required": ["request_type", "request_text"],
  "additionalProperties": false
}
`)
