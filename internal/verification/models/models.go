package models

// Credential is one parsed verifiable credential supplied by the credential
// source, already decrypted and decoded. Content is the credential's
// structured JSON body.
type Credential struct {
	VCType    string         `json:"vc_type"`
	DocType   string         `json:"doc_type"`
	DocFormat string         `json:"doc_format"`
	Content   map[string]any `json:"content"`
}

// DocFieldMapEntry describes, for one credential variant of a document type,
// where each profile attribute's raw value lives inside the credential
// content (dot-separated path expressions).
type DocFieldMapEntry struct {
	VCType string            `json:"vcType"`
	Format string            `json:"format"`
	Fields map[string]string `json:"fields"`
}

// Config is the static matcher configuration, loaded once per run from the
// admin settings source and treated as read-only.
type Config struct {
	// AttributeDocs lists, per profile attribute, the document types to
	// check in priority order.
	AttributeDocs map[string][]string
	// DocFieldMaps holds the ordered mapping entries per document type.
	DocFieldMaps map[string][]DocFieldMapEntry
	// FieldValues maps enumerated attributes to synonym tables:
	// canonical claimed value -> acceptable raw spellings.
	FieldValues map[string]map[string][]string
	// NameFieldsPosition gives, per document type, the whitespace-split
	// index of each name attribute inside a combined full-name field.
	NameFieldsPosition map[string]map[string]int
}

// ProfileAttribute is one claimed attribute in request order. A nil Value
// means the profile has no claim for the attribute.
type ProfileAttribute struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

// MatchResult is the per-attribute outcome of a verification run. DocsUsed
// lists the document types that corroborated the claim, in scan order;
// empty when unverified. Results are not persisted.
type MatchResult struct {
	Attribute string   `json:"attribute"`
	Verified  bool     `json:"verified"`
	DocsUsed  []string `json:"docs_used"`
}
