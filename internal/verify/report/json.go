package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/query-verify/internal/apperr"
	"github.com/DjordjeVuckovic/query-verify/internal/verify/variant"
)

const DefaultPrefix = "engagement_query"

func WriteJSON(s *Summary, path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return apperr.NewPersistence(path, fmt.Errorf("marshal summary: %w", err))
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return apperr.NewPersistence(path, err)
	}
	return nil
}

// WriteQuery stores the variant text verbatim for later diffing.
func WriteQuery(v variant.Variant, path string) error {
	if err := os.WriteFile(path, []byte(v.Text()), 0644); err != nil {
		return apperr.NewPersistence(path, err)
	}
	return nil
}

// ArtifactPaths names every file a run writes under one directory.
type ArtifactPaths struct {
	Summary string
	Queries map[string]string // [variant label]path
}

func NewArtifactPaths(dir, prefix string, ts time.Time, labels ...string) ArtifactPaths {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	p := ArtifactPaths{
		Summary: filepath.Join(dir, fmt.Sprintf("%s_test_results_%s.json", prefix, ts.Format("20060102_150405"))),
		Queries: make(map[string]string, len(labels)),
	}
	for _, l := range labels {
		p.Queries[l] = filepath.Join(dir, fmt.Sprintf("%s_%s.sql", prefix, l))
	}
	return p
}
