// Package drafts loads day-by-day draft study plans and compares their
// topic coverage, so competing generated curricula can be judged side by
// side.
package drafts

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/kmmuntasir/studyplan/internal/markdown"
	"github.com/kmmuntasir/studyplan/internal/model"
)

var dayPattern = regexp.MustCompile(`(?i)^day\s*(\d+)\s*[:\-]?\s*(.*)$`)

// LoadDir parses every *.md file in dir as a draft plan, sorted by file
// name.
func LoadDir(dir string) ([]model.Draft, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read drafts dir %s: %w", dir, err)
	}

	var drafts []model.Draft
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		d, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if len(drafts) == 0 {
		return nil, fmt.Errorf("no draft plans in %s", dir)
	}
	sort.Slice(drafts, func(i, j int) bool { return drafts[i].Name < drafts[j].Name })
	return drafts, nil
}

// LoadFile parses a single draft plan. Level-2 "Day N" headings open
// days; deeper sections (morning/afternoon splits and the like) feed the
// current day.
func LoadFile(path string) (model.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Draft{}, fmt.Errorf("read %s: %w", path, err)
	}

	sections, err := markdown.NewParser().Outline(data)
	if err != nil {
		return model.Draft{}, fmt.Errorf("parse draft %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".md")
	d := model.Draft{Name: name, Path: path}

	for _, s := range sections {
		if s.Level == 2 {
			if m := dayPattern.FindStringSubmatch(s.Title); m != nil {
				n, _ := strconv.Atoi(m[1])
				d.Days = append(d.Days, model.DraftDay{
					Number: n,
					Title:  strings.TrimSpace(m[2]),
					Topics: append([]string(nil), s.Entries...),
				})
				continue
			}
		}
		// Preamble or sub-section: attach entries to the open day.
		if len(d.Days) > 0 && len(s.Entries) > 0 {
			last := &d.Days[len(d.Days)-1]
			last.Topics = append(last.Topics, s.Entries...)
		}
	}
	return d, nil
}

// TopicCoverage records which drafts mention one normalized topic.
type TopicCoverage struct {
	Topic  string   // representative original spelling
	Drafts []string // names of drafts covering it, sorted
}

// Comparison is the result of lining drafts up against each other.
type Comparison struct {
	Drafts   []model.Draft
	Coverage []TopicCoverage // every topic, sorted by topic text
}

// Compare normalizes all topics and builds the coverage table.
func Compare(drafts []model.Draft) Comparison {
	type bucket struct {
		repr  string
		names map[string]struct{}
	}
	buckets := map[string]*bucket{}

	for _, d := range drafts {
		for _, topic := range d.Topics() {
			key := Normalize(topic)
			if key == "" {
				continue
			}
			b, ok := buckets[key]
			if !ok {
				b = &bucket{repr: topic, names: map[string]struct{}{}}
				buckets[key] = b
			}
			b.names[d.Name] = struct{}{}
		}
	}

	cmp := Comparison{Drafts: drafts}
	for _, b := range buckets {
		tc := TopicCoverage{Topic: b.repr}
		for name := range b.names {
			tc.Drafts = append(tc.Drafts, name)
		}
		sort.Strings(tc.Drafts)
		cmp.Coverage = append(cmp.Coverage, tc)
	}
	sort.Slice(cmp.Coverage, func(i, j int) bool {
		return Normalize(cmp.Coverage[i].Topic) < Normalize(cmp.Coverage[j].Topic)
	})
	return cmp
}

// Contested returns topics not covered by every draft.
func (c Comparison) Contested() []TopicCoverage {
	var out []TopicCoverage
	for _, tc := range c.Coverage {
		if len(tc.Drafts) < len(c.Drafts) {
			out = append(out, tc)
		}
	}
	return out
}

// Common returns topics covered by every draft.
func (c Comparison) Common() []TopicCoverage {
	var out []TopicCoverage
	for _, tc := range c.Coverage {
		if len(tc.Drafts) == len(c.Drafts) {
			out = append(out, tc)
		}
	}
	return out
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// Normalize collapses a topic string so cosmetic differences between
// drafts ("Async/Await!", "async await") collide.
func Normalize(topic string) string {
	s := strings.ToLower(topic)
	s = nonWord.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}
