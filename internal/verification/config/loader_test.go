package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "fieldgate/pkg/domain-errors"
)

// fakeSource serves canned documents keyed by namespace/key.
type fakeSource struct {
	docs map[string][]byte
}

func (f *fakeSource) GetDocument(_ context.Context, namespace, key string) ([]byte, error) {
	if doc, ok := f.docs[namespace+"/"+key]; ok {
		return doc, nil
	}
	return nil, dErrors.New(dErrors.CodeNotFound, "setting not found")
}

type LoaderSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *LoaderSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderSuite))
}

func (s *LoaderSuite) requiredDocs() map[string][]byte {
	return map[string][]byte{
		"verification/attribute-docs": []byte(`{"dob":["aadhaar"]}`),
		"verification/doc-field-maps": []byte(`{"aadhaar":[{"vcType":"digilocker","format":"xml","fields":{"dob":"credentialSubject.dob"}}]}`),
	}
}

func (s *LoaderSuite) TestLoad() {
	s.Run("loads required documents and decodes them", func() {
		loader := NewLoader(&fakeSource{docs: s.requiredDocs()})
		cfg, err := loader.Load(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"aadhaar"}, cfg.AttributeDocs["dob"])
		s.Require().Len(cfg.DocFieldMaps["aadhaar"], 1)
		s.Equal("digilocker", cfg.DocFieldMaps["aadhaar"][0].VCType)
	})

	s.Run("missing required document is a config error", func() {
		docs := s.requiredDocs()
		delete(docs, "verification/attribute-docs")
		loader := NewLoader(&fakeSource{docs: docs})

		_, err := loader.Load(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConfig))
	})

	s.Run("malformed required document is a config error", func() {
		docs := s.requiredDocs()
		docs["verification/doc-field-maps"] = []byte(`{"aadhaar":`)
		loader := NewLoader(&fakeSource{docs: docs})

		_, err := loader.Load(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConfig))
	})

	s.Run("absent optional documents leave tables empty", func() {
		loader := NewLoader(&fakeSource{docs: s.requiredDocs()})
		cfg, err := loader.Load(s.ctx)
		s.Require().NoError(err)
		s.Nil(cfg.FieldValues)
		s.Nil(cfg.NameFieldsPosition)
	})

	s.Run("present optional documents decode", func() {
		docs := s.requiredDocs()
		docs["verification/field-values"] = []byte(`{"gender":{"male":["M"]}}`)
		docs["verification/name-positions"] = []byte(`{"aadhaar":{"firstName":0}}`)
		loader := NewLoader(&fakeSource{docs: docs})

		cfg, err := loader.Load(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"M"}, cfg.FieldValues["gender"]["male"])
		s.Equal(0, cfg.NameFieldsPosition["aadhaar"]["firstName"])
	})

	s.Run("malformed optional document is still a config error", func() {
		docs := s.requiredDocs()
		docs["verification/field-values"] = []byte(`not json`)
		loader := NewLoader(&fakeSource{docs: docs})

		_, err := loader.Load(s.ctx)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeConfig))
	})
}
