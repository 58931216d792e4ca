package settings

import (
	"encoding/json"
	"time"
)

// Setting is one namespaced admin configuration document. Documents are
// opaque JSON; consumers (e.g. the verification config loader) decode them.
type Setting struct {
	Namespace string          `json:"namespace"`
	Key       string          `json:"key"`
	Document  json.RawMessage `json:"document"`
	UpdatedAt time.Time       `json:"updated_at"`
}
