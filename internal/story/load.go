package story

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"storyreel/internal/services"
	"storyreel/internal/textutil"
)

// DuplicateThreshold is the content similarity at which a story counts as a
// repost of an earlier one.
const DuplicateThreshold = 0.92

// Rejection explains why a record in a collection was skipped.
type Rejection struct {
	Index  int
	Title  string
	Reason string
}

func (r Rejection) String() string {
	if r.Title == "" {
		return fmt.Sprintf("story %d: %s", r.Index, r.Reason)
	}
	return fmt.Sprintf("story %d (%q): %s", r.Index, r.Title, r.Reason)
}

// Collection is a decoded harvest file.
type Collection struct {
	Path     string
	Stories  []Story
	Rejected []Rejection
}

// LoadFile decodes a harvest file. Records are numbered from 1 in rejections.
func LoadFile(path string, maxContentLength int) (Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Collection{}, services.Wrap(services.ErrMissingResource, "stories", "load", path, err)
		}
		return Collection{}, services.Wrap(services.ErrParse, "stories", "load", path, err)
	}
	var records []Story
	if err := json.Unmarshal(data, &records); err != nil {
		return Collection{}, services.Wrap(services.ErrParse, "stories", "decode", path, err)
	}
	return Filter(path, records, maxContentLength), nil
}

// Filter validates records and drops near-duplicate content.
func Filter(path string, records []Story, maxContentLength int) Collection {
	collection := Collection{Path: path}
	type seen struct {
		title       string
		fingerprint textutil.Fingerprint
	}
	var accepted []seen
	for i, record := range records {
		if err := record.Validate(maxContentLength); err != nil {
			collection.Rejected = append(collection.Rejected, Rejection{Index: i + 1, Title: record.Title, Reason: err.Error()})
			continue
		}
		fp := textutil.NewFingerprint(record.Content)
		duplicate := ""
		for _, prior := range accepted {
			if fp.Similarity(prior.fingerprint) >= DuplicateThreshold {
				duplicate = prior.title
				break
			}
		}
		if duplicate != "" {
			collection.Rejected = append(collection.Rejected, Rejection{Index: i + 1, Title: record.Title, Reason: fmt.Sprintf("duplicate of %q", duplicate)})
			continue
		}
		accepted = append(accepted, seen{title: record.Title, fingerprint: fp})
		collection.Stories = append(collection.Stories, record)
	}
	return collection
}

// LatestFile returns the newest "*_stories_*.json" file in dir. Harvest file
// names embed a sortable timestamp, so the lexicographically greatest wins.
func LatestFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*_stories_*.json"))
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "stories", "find latest", dir, err)
	}
	if len(matches) == 0 {
		return "", services.Wrap(services.ErrMissingResource, "stories", "find latest", fmt.Sprintf("no story files in %s", dir), nil)
	}
	sort.Slice(matches, func(i, j int) bool {
		return strings.ToLower(filepath.Base(matches[i])) < strings.ToLower(filepath.Base(matches[j]))
	})
	return matches[len(matches)-1], nil
}
