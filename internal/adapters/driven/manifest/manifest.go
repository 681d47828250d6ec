// Package manifest loads bulk-import manifests from YAML files.
//
// A manifest lists properties and leases. Each lease may name document
// globs, relative to the manifest file, whose files become the lease's
// clause source:
//
//	properties:
//	  - name: Harbour Point
//	    address: 1 Quay Street
//	leases:
//	  - tenant: Acme Ltd
//	    property: Harbour Point
//	    start_date: 2024-01-01
//	    end_date: 2029-12-31
//	    monthly_rent: 12500
//	    documents:
//	      - leases/acme/**/*.pdf
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/leaserag/internal/core/domain"
)

const dateLayout = "2006-01-02"

type fileManifest struct {
	Properties []fileProperty `yaml:"properties"`
	Leases     []fileLease    `yaml:"leases"`
}

type fileProperty struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
}

type fileLease struct {
	Tenant      string   `yaml:"tenant"`
	PropertyID  string   `yaml:"property_id"`
	Property    string   `yaml:"property"`
	StartDate   string   `yaml:"start_date"`
	EndDate     string   `yaml:"end_date"`
	MonthlyRent float64  `yaml:"monthly_rent"`
	Notes       string   `yaml:"notes"`
	Documents   []string `yaml:"documents"`
}

// Load reads the manifest at path and resolves its document globs.
func Load(path string) (*domain.ImportManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse decodes manifest YAML. Document globs are resolved against baseDir.
func Parse(data []byte, baseDir string) (*domain.ImportManifest, error) {
	var fm fileManifest
	if err := yaml.Unmarshal(data, &fm); err != nil {
		return nil, fmt.Errorf("%w: parse manifest: %w", domain.ErrInvalidInput, err)
	}

	m := &domain.ImportManifest{
		Properties: make([]domain.ImportProperty, 0, len(fm.Properties)),
		Leases:     make([]domain.ImportLease, 0, len(fm.Leases)),
	}
	for _, p := range fm.Properties {
		m.Properties = append(m.Properties, domain.ImportProperty{
			ID:      strings.TrimSpace(p.ID),
			Name:    strings.TrimSpace(p.Name),
			Address: strings.TrimSpace(p.Address),
		})
	}

	for i, l := range fm.Leases {
		lease, err := toLease(l, baseDir)
		if err != nil {
			return nil, fmt.Errorf("lease %d (%s): %w", i+1, l.Tenant, err)
		}
		m.Leases = append(m.Leases, lease)
	}
	return m, nil
}

func toLease(l fileLease, baseDir string) (domain.ImportLease, error) {
	start, err := parseDate(l.StartDate)
	if err != nil {
		return domain.ImportLease{}, err
	}
	end, err := parseDate(l.EndDate)
	if err != nil {
		return domain.ImportLease{}, err
	}

	docs, err := readDocuments(baseDir, l.Documents)
	if err != nil {
		return domain.ImportLease{}, err
	}

	return domain.ImportLease{
		TenantName:   strings.TrimSpace(l.Tenant),
		PropertyID:   strings.TrimSpace(l.PropertyID),
		PropertyName: strings.TrimSpace(l.Property),
		StartDate:    start,
		EndDate:      end,
		MonthlyRent:  l.MonthlyRent,
		Notes:        l.Notes,
		Documents:    docs,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// readDocuments expands each pattern and reads the matched files. A pattern
// that matches nothing is an error so typos surface before anything is
// created.
func readDocuments(baseDir string, patterns []string) ([]domain.RawDocument, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range patterns {
		full := pattern
		if !filepath.IsAbs(full) {
			full = filepath.Join(baseDir, pattern)
		}
		matches, err := doublestar.FilepathGlob(full, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %w", domain.ErrInvalidInput, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: pattern %q matched no files", domain.ErrNotFound, pattern)
		}
		sort.Strings(matches)
		for _, path := range matches {
			if !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
		}
	}

	docs := make([]domain.RawDocument, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read document: %w", err)
		}
		docs = append(docs, domain.RawDocument{FileName: path, Content: content})
	}
	return docs, nil
}
