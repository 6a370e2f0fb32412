package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/schedsim/feedq/runtime/simulation"
	"github.com/schedsim/feedq/service/dao"
	"github.com/schedsim/feedq/service/dao/criteria"
)

// Service exports records as standalone JSON documents, one file per record
// grouped by owning simulation, so completed runs can be inspected or
// archived after the owning process exits. The scheduler never reads them
// back.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

// Ensure Service implements dao.Service
var _ dao.Service[string, simulation.Record] = (*Service)(nil)

// Save writes the record as an indented JSON document under its simulation
// directory.
func (s *Service) Save(ctx context.Context, record *simulation.Record) error {
	if record == nil {
		return dao.ErrNilEntity
	}
	if record.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	URL := s.documentURL(record)
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save record to %s: %w", URL, err)
	}
	return nil
}

// Load retrieves a record by ID, searching across simulation directories.
func (s *Service) Load(ctx context.Context, id string) (*simulation.Record, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	object, err := s.locate(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.fs.Download(ctx, object)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file: %w", err)
	}
	record := &simulation.Record{}
	if err := json.Unmarshal(data, record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record data: %w", err)
	}
	return record, nil
}

// Delete removes the record document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	object, err := s.locate(ctx, id)
	if err != nil {
		return err
	}
	if err := s.fs.Delete(ctx, object.URL()); err != nil {
		return fmt.Errorf("failed to delete record file: %w", err)
	}
	return nil
}

// List returns records passing the supplied simulation, state and level
// filters. Unreadable documents are skipped and logged.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*simulation.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var records []*simulation.Record
	err := s.walk(ctx, func(object storage.Object) {
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("error reading record file %s: %v", object.URL(), err)
			return
		}
		record := &simulation.Record{}
		if err := json.Unmarshal(data, record); err != nil {
			log.Printf("error unmarshaling record from %s: %v", object.URL(), err)
			return
		}
		if !criteria.FilterBySimulation(record.SimulationID, parameters) {
			return
		}
		if !criteria.FilterByState(string(record.State), parameters) {
			return
		}
		if !criteria.FilterByLevel(record.Level, parameters) {
			return
		}
		records = append(records, record)
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// documentURL groups documents by owning simulation; records without one
// land at the root.
func (s *Service) documentURL(record *simulation.Record) string {
	if record.SimulationID == "" {
		return url.Join(s.baseURL, record.ID+".json")
	}
	return url.Join(s.baseURL, record.SimulationID, record.ID+".json")
}

// locate finds the document for the given record ID across simulation
// directories.
func (s *Service) locate(ctx context.Context, id string) (storage.Object, error) {
	var found storage.Object
	err := s.walk(ctx, func(object storage.Object) {
		if found == nil && object.Name() == id+".json" {
			found = object
		}
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, fmt.Errorf("record %s: %w", id, dao.ErrNotFound)
	}
	return found, nil
}

// walk visits every record document under the base URL.
func (s *Service) walk(ctx context.Context, visit func(object storage.Object)) error {
	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return fmt.Errorf("failed to list record files: %w", err)
	}
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		visit(object)
	}
	return nil
}

// New creates a record export service rooted at baseURL, creating the
// directory when absent.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	fs := afs.New()

	ctx := context.Background()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base directory: %w", err)
		}
	}

	return &Service{
		baseURL: url.Normalize(baseURL, file.Scheme),
		fs:      fs,
	}, nil
}
