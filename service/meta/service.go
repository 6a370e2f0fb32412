package meta

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads configuration documents such as scheduler configs and
// scenarios from an abstract file system. Relative URLs resolve against the
// configured base URL, which may use any scheme afs understands (file, mem,
// embed, s3, ...).
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
}

// New creates a meta service backed by the supplied file system. Extra
// storage options are passed through to every download, e.g. embed.FS
// bindings.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, fsOptions: options}
}

// Load downloads the document at URL and decodes it into target. Values may
// reference environment variables with ${env.KEY}; references are expanded
// before decoding. Target is anything yaml.Unmarshal accepts, including
// *yaml.Node.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	location := s.resolve(URL)
	data, err := s.fs.DownloadWithURL(ctx, location, s.fsOptions...)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", location, err)
	}
	expanded := expandEnvExpr(string(data))
	if err := yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return nil
}

// Exists reports whether the document at URL is present.
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.resolve(URL), s.fsOptions...)
}

func (s *Service) resolve(URL string) string {
	if s.baseURL == "" || !url.IsRelative(URL) {
		return URL
	}
	return url.Join(s.baseURL, URL)
}
