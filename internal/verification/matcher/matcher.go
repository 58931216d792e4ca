// Package matcher reconciles a user's claimed profile attributes against
// values extracted from parsed verifiable credentials.
package matcher

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"fieldgate/internal/verification/models"
	dErrors "fieldgate/pkg/domain-errors"
)

// vcTypeDigilocker marks issuer formats that expose a single combined
// full-name field instead of separate name attributes.
const vcTypeDigilocker = "digilocker"

// nameAttributes are resolved positionally from the combined full-name field
// on digilocker-style credentials.
var nameAttributes = map[string]struct{}{
	"firstName":  {},
	"middleName": {},
	"lastName":   {},
}

// dobAttributes receive date normalization before comparison.
var dobAttributes = map[string]struct{}{
	"dob":         {},
	"dateOfBirth": {},
	"birthDate":   {},
}

// Matcher evaluates profile attributes against credentials under one fixed
// configuration. It is read-only and safe for concurrent use.
type Matcher struct {
	cfg models.Config
}

// New validates the configuration and constructs a matcher. A missing
// attribute-to-documents table is a malformed configuration and fatal for the
// whole run, unlike per-document misses which are swallowed during scanning.
func New(cfg models.Config) (*Matcher, error) {
	if cfg.AttributeDocs == nil {
		return nil, dErrors.New(dErrors.CodeConfig, "attribute document mapping is missing")
	}
	if cfg.DocFieldMaps == nil {
		return nil, dErrors.New(dErrors.CodeConfig, "document field maps are missing")
	}
	return &Matcher{cfg: cfg}, nil
}

// Match produces one result per requested attribute, in request order.
// Attributes share no mutable state, so they are evaluated concurrently;
// each goroutine writes only its own slot.
func (m *Matcher) Match(ctx context.Context, profile []models.ProfileAttribute, vcs []models.Credential) ([]models.MatchResult, error) {
	results := make([]models.MatchResult, len(profile))

	g, _ := errgroup.WithContext(ctx)
	for i, attribute := range profile {
		g.Go(func() error {
			results[i] = m.matchAttribute(attribute, vcs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// matchAttribute scans the attribute's configured document types in order and
// stops at the first one that corroborates the claim. Each document type is
// represented by at most one (map entry, credential) pair: the first pair
// whose vcType/format/docType all line up. Whatever that single comparison
// says decides the document type.
func (m *Matcher) matchAttribute(attribute models.ProfileAttribute, vcs []models.Credential) models.MatchResult {
	result := models.MatchResult{Attribute: attribute.Name, DocsUsed: []string{}}
	if attribute.Value == nil {
		return result
	}
	claimed := *attribute.Value

	for _, docType := range m.cfg.AttributeDocs[attribute.Name] {
		raw, ok := m.resolveFromDoc(docType, attribute.Name, vcs)
		if !ok {
			continue
		}
		if m.compare(attribute.Name, claimed, raw) {
			result.Verified = true
			result.DocsUsed = append(result.DocsUsed, docType)
			return result
		}
	}
	return result
}

// resolveFromDoc extracts the attribute's raw value from the first credential
// of the given document type that matches a mapping entry. Any miss along the
// way (no entry, no credential, no path, unresolvable path) is non-fatal and
// reported as !ok.
func (m *Matcher) resolveFromDoc(docType, attribute string, vcs []models.Credential) (string, bool) {
	entry, vc, ok := m.firstMatch(docType, vcs)
	if !ok {
		return "", false
	}
	path, ok := entry.Fields[attribute]
	if !ok || path == "" {
		return "", false
	}
	raw, ok := resolvePath(vc.Content, path)
	if !ok {
		return "", false
	}

	// Digilocker-style issuers expose one combined full-name field; name
	// attributes are picked out of it positionally.
	if _, isName := nameAttributes[attribute]; isName && strings.EqualFold(entry.VCType, vcTypeDigilocker) {
		position, ok := m.cfg.NameFieldsPosition[docType][attribute]
		if !ok {
			return "", false
		}
		parts := strings.Fields(raw)
		if position < 0 || position >= len(parts) {
			return "", false
		}
		raw = parts[position]
	}
	return raw, true
}

// firstMatch pairs the first mapping entry for the document type with the
// first available credential matching its vcType and format.
func (m *Matcher) firstMatch(docType string, vcs []models.Credential) (models.DocFieldMapEntry, models.Credential, bool) {
	for _, entry := range m.cfg.DocFieldMaps[docType] {
		for _, vc := range vcs {
			if vc.DocType == docType && vc.VCType == entry.VCType && vc.DocFormat == entry.Format {
				return entry, vc, true
			}
		}
	}
	return models.DocFieldMapEntry{}, models.Credential{}, false
}

// compare applies the attribute-dependent comparison policy.
func (m *Matcher) compare(attribute, claimed, raw string) bool {
	if synonyms, ok := m.cfg.FieldValues[attribute]; ok {
		return synonymMatch(synonyms, claimed, raw)
	}
	if _, isDOB := dobAttributes[attribute]; isDOB {
		claimedNorm, ok := normalizeDate(claimed)
		if !ok {
			return false
		}
		rawNorm, ok := normalizeDate(raw)
		if !ok {
			return false
		}
		return claimedNorm == rawNorm
	}
	return claimed == raw
}

// synonymMatch reports whether the claimed value's synonym list contains the
// resolved raw value. Both the canonical lookup and the membership test are
// case-insensitive.
func synonymMatch(synonyms map[string][]string, claimed, raw string) bool {
	for canonical, accepted := range synonyms {
		if !strings.EqualFold(canonical, claimed) {
			continue
		}
		for _, spelling := range accepted {
			if strings.EqualFold(spelling, raw) {
				return true
			}
		}
	}
	return false
}
