package scenario

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/schedsim/feedq/model"
	"github.com/schedsim/feedq/service/dao/store"
	"github.com/schedsim/feedq/service/meta"
)

// Service loads scenario definitions from YAML documents. Parsed scenarios
// are cached by source URL; callers always receive independent copies so a
// cached master is never mutated.
type Service struct {
	metaService *meta.Service
	cache       *store.MemoryStore[string, model.Scenario]
}

// DecodeYAML decodes a scenario from YAML
func (s *Service) DecodeYAML(encoded []byte) (*model.Scenario, error) {
	scenario := &model.Scenario{}
	if err := yaml.Unmarshal(encoded, scenario); err != nil {
		return nil, err
	}
	if err := s.finish("", scenario); err != nil {
		return nil, err
	}
	return scenario, nil
}

// Load loads a scenario from the YAML document at the given URL
func (s *Service) Load(ctx context.Context, URL string) (*model.Scenario, error) {
	ext := filepath.Ext(URL)
	if ext == "" {
		URL += ".yaml"
	}
	if cached, _ := s.cache.Load(ctx, URL); cached != nil {
		return cached.Clone(), nil
	}

	scenario := &model.Scenario{}
	if err := s.metaService.Load(ctx, URL, scenario); err != nil {
		return nil, fmt.Errorf("failed to load scenario from %s: %w", URL, err)
	}
	if err := s.finish(URL, scenario); err != nil {
		return nil, err
	}
	_ = s.cache.Save(ctx, scenario)
	return scenario.Clone(), nil
}

// Invalidate drops the cached scenario for the given URL so the next Load
// re-reads the source document.
func (s *Service) Invalidate(ctx context.Context, URL string) {
	if filepath.Ext(URL) == "" {
		URL += ".yaml"
	}
	_ = s.cache.Delete(ctx, URL)
}

// finish stamps the source, defaults the name and validates the scenario.
func (s *Service) finish(URL string, scenario *model.Scenario) error {
	if URL != "" {
		scenario.Source = &model.Source{URL: URL}
	}
	if scenario.Name == "" {
		scenario.Name = defaultName(URL)
	}
	if issues := scenario.Validate(); len(issues) > 0 {
		return fmt.Errorf("invalid scenario %s: %w", scenario.Name, issues[0])
	}
	return nil
}

// New creates a new scenario service instance
func New(opts ...Option) *Service {
	ret := &Service{
		metaService: meta.New(afs.New(), ""),
		cache: store.NewMemoryStore[string, model.Scenario](func(s *model.Scenario) string {
			if s.Source != nil {
				return s.Source.URL
			}
			return s.Name
		}),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
