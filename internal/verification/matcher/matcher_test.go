package matcher

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"fieldgate/internal/verification/models"
	dErrors "fieldgate/pkg/domain-errors"
)

type MatcherSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *MatcherSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherSuite))
}

func strPtr(v string) *string { return &v }

// baseConfig wires two document types for the usual attributes.
func (s *MatcherSuite) baseConfig() models.Config {
	return models.Config{
		AttributeDocs: map[string][]string{
			"dob":       {"aadhaar", "tenthMarksheet"},
			"gender":    {"aadhaar"},
			"firstName": {"aadhaar"},
			"caste":     {"casteCertificate"},
		},
		DocFieldMaps: map[string][]models.DocFieldMapEntry{
			"aadhaar": {
				{
					VCType: "digilocker",
					Format: "xml",
					Fields: map[string]string{
						"dob":       "credentialSubject.dob",
						"gender":    "credentialSubject.gender",
						"firstName": "credentialSubject.name",
					},
				},
			},
			"tenthMarksheet": {
				{
					VCType: "w3c",
					Format: "json-ld",
					Fields: map[string]string{
						"dob": "credentialSubject.person.birthDate",
					},
				},
			},
			"casteCertificate": {
				{
					VCType: "w3c",
					Format: "json-ld",
					Fields: map[string]string{"caste": "credentialSubject.caste"},
				},
			},
		},
		FieldValues: map[string]map[string][]string{
			"gender": {
				"male":   {"M", "Male", "MALE"},
				"female": {"F", "Female", "FEMALE"},
			},
		},
		NameFieldsPosition: map[string]map[string]int{
			"aadhaar": {"firstName": 0, "middleName": 1, "lastName": 2},
		},
	}
}

func aadhaarCredential(subject map[string]any) models.Credential {
	return models.Credential{
		VCType:    "digilocker",
		DocType:   "aadhaar",
		DocFormat: "xml",
		Content:   map[string]any{"credentialSubject": subject},
	}
}

func (s *MatcherSuite) TestConfigValidation() {
	s.Run("missing attribute docs is a config error", func() {
		_, err := New(models.Config{DocFieldMaps: map[string][]models.DocFieldMapEntry{}})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConfig))
	})

	s.Run("missing doc field maps is a config error", func() {
		_, err := New(models.Config{AttributeDocs: map[string][]string{}})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConfig))
	})
}

func (s *MatcherSuite) TestDOBNormalization() {
	m, err := New(s.baseConfig())
	s.Require().NoError(err)

	s.Run("differing layouts of the same date verify", func() {
		vcs := []models.Credential{aadhaarCredential(map[string]any{"dob": "10-05-2001"})}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "dob", Value: strPtr("2001-05-10")}}, vcs)
		s.Require().NoError(err)
		s.Require().Len(results, 1)
		s.True(results[0].Verified)
		s.Equal([]string{"aadhaar"}, results[0].DocsUsed)
	})

	s.Run("unrecognized date format is unverified, not an error", func() {
		vcs := []models.Credential{aadhaarCredential(map[string]any{"dob": "May 10, 2001"})}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "dob", Value: strPtr("2001-05-10")}}, vcs)
		s.Require().NoError(err)
		s.False(results[0].Verified)
		s.Empty(results[0].DocsUsed)
	})

	s.Run("falls through to the next document type", func() {
		vcs := []models.Credential{
			aadhaarCredential(map[string]any{"dob": "01-01-1999"}),
			{
				VCType:    "w3c",
				DocType:   "tenthMarksheet",
				DocFormat: "json-ld",
				Content: map[string]any{
					"credentialSubject": map[string]any{
						"person": map[string]any{"birthDate": "2001/05/10"},
					},
				},
			},
		}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "dob", Value: strPtr("10/05/2001")}}, vcs)
		s.Require().NoError(err)
		s.True(results[0].Verified)
		s.Equal([]string{"tenthMarksheet"}, results[0].DocsUsed)
	})
}

func (s *MatcherSuite) TestSynonyms() {
	m, err := New(s.baseConfig())
	s.Require().NoError(err)

	s.Run("synonym table matches case-insensitively", func() {
		vcs := []models.Credential{aadhaarCredential(map[string]any{"gender": "MALE"})}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "gender", Value: strPtr("Male")}}, vcs)
		s.Require().NoError(err)
		s.True(results[0].Verified)
	})

	s.Run("raw value outside the synonym list does not verify", func() {
		vcs := []models.Credential{aadhaarCredential(map[string]any{"gender": "X"})}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "gender", Value: strPtr("male")}}, vcs)
		s.Require().NoError(err)
		s.False(results[0].Verified)
	})

	s.Run("attributes without a synonym table compare exactly", func() {
		vcs := []models.Credential{{
			VCType:    "w3c",
			DocType:   "casteCertificate",
			DocFormat: "json-ld",
			Content:   map[string]any{"credentialSubject": map[string]any{"caste": "General"}},
		}}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "caste", Value: strPtr("general")}}, vcs)
		s.Require().NoError(err)
		s.False(results[0].Verified)
	})
}

func (s *MatcherSuite) TestDigilockerNameSplit() {
	m, err := New(s.baseConfig())
	s.Require().NoError(err)

	s.Run("first name resolves positionally from the full name", func() {
		vcs := []models.Credential{aadhaarCredential(map[string]any{"name": "Asha R Patil"})}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "firstName", Value: strPtr("Asha")}}, vcs)
		s.Require().NoError(err)
		s.True(results[0].Verified)
	})

	s.Run("position past the split is a miss", func() {
		cfg := s.baseConfig()
		cfg.AttributeDocs["lastName"] = []string{"aadhaar"}
		cfg.DocFieldMaps["aadhaar"][0].Fields["lastName"] = "credentialSubject.name"
		m, err := New(cfg)
		s.Require().NoError(err)

		vcs := []models.Credential{aadhaarCredential(map[string]any{"name": "Asha"})}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "lastName", Value: strPtr("Patil")}}, vcs)
		s.Require().NoError(err)
		s.False(results[0].Verified)
	})
}

func (s *MatcherSuite) TestScanningEdges() {
	m, err := New(s.baseConfig())
	s.Require().NoError(err)

	s.Run("nil claimed value never scans", func() {
		vcs := []models.Credential{aadhaarCredential(map[string]any{"dob": "10-05-2001"})}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "dob", Value: nil}}, vcs)
		s.Require().NoError(err)
		s.False(results[0].Verified)
		s.NotNil(results[0].DocsUsed)
		s.Empty(results[0].DocsUsed)
	})

	s.Run("attribute without configured documents is unverified", func() {
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "unknownAttr", Value: strPtr("x")}}, nil)
		s.Require().NoError(err)
		s.False(results[0].Verified)
	})

	s.Run("credential with wrong format is skipped", func() {
		vcs := []models.Credential{{
			VCType:    "digilocker",
			DocType:   "aadhaar",
			DocFormat: "json",
			Content:   map[string]any{"credentialSubject": map[string]any{"dob": "10-05-2001"}},
		}}
		results, err := m.Match(s.ctx, []models.ProfileAttribute{{Name: "dob", Value: strPtr("2001-05-10")}}, vcs)
		s.Require().NoError(err)
		s.False(results[0].Verified)
	})

	s.Run("results preserve request order", func() {
		vcs := []models.Credential{aadhaarCredential(map[string]any{
			"dob":    "10-05-2001",
			"gender": "F",
		})}
		profile := []models.ProfileAttribute{
			{Name: "gender", Value: strPtr("female")},
			{Name: "dob", Value: strPtr("2001-05-10")},
			{Name: "caste", Value: strPtr("General")},
		}
		results, err := m.Match(s.ctx, profile, vcs)
		s.Require().NoError(err)
		s.Require().Len(results, 3)
		s.Equal("gender", results[0].Attribute)
		s.Equal("dob", results[1].Attribute)
		s.Equal("caste", results[2].Attribute)
		s.True(results[0].Verified)
		s.True(results[1].Verified)
		s.False(results[2].Verified)
	})
}

func (s *MatcherSuite) TestPathResolution() {
	s.Run("walks nested maps and arrays", func() {
		content := map[string]any{
			"subjects": []any{
				map[string]any{"score": 91.5},
			},
		}
		raw, ok := resolvePath(content, "subjects.0.score")
		s.Require().True(ok)
		s.Equal("91.5", raw)
	})

	s.Run("missing segment is a miss", func() {
		_, ok := resolvePath(map[string]any{"a": map[string]any{}}, "a.b")
		s.False(ok)
	})

	s.Run("non-scalar leaf is a miss", func() {
		_, ok := resolvePath(map[string]any{"a": map[string]any{"b": map[string]any{}}}, "a.b")
		s.False(ok)
	})
}
