package scenario

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
)

var anonymousSeq int32

// defaultName derives a scenario name from its source URL, falling back to a
// process-unique anonymous name for documents decoded without a source.
func defaultName(URL string) string {
	if name := nameFromURL(URL); name != "" {
		return name
	}
	return fmt.Sprintf("anonymous-%d", atomic.AddInt32(&anonymousSeq, 1))
}

// nameFromURL extracts the scenario name from a URL: the file name without
// its extension.
func nameFromURL(URL string) string {
	if URL == "" {
		return ""
	}
	base := filepath.Base(URL)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
