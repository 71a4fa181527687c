// Package catalog serves the read-only reference data the interview flows
// are built around: roles, companies, experience levels, question banks and
// company leadership principles.
package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"star-backend/internal/shared/storage/object"
	"star-backend/internal/shared/storage/object/local"
)

//go:embed catalog.yaml
var defaultData []byte

// CompanyValues is a company's leadership principle set.
type CompanyValues struct {
	Name       string   `json:"name" yaml:"name"`
	Principles []string `json:"principles" yaml:"principles"`
	Tip        string   `json:"tip" yaml:"tip"`
}

type roleMatcher struct {
	Key       string `yaml:"key"`
	Questions string `yaml:"questions"`
}

type document struct {
	Roles            []string            `yaml:"roles"`
	Companies        []string            `yaml:"companies"`
	ExperienceLevels []string            `yaml:"experienceLevels"`
	GeneralQuestions []string            `yaml:"generalQuestions"`
	RoleMatchers     []roleMatcher       `yaml:"roleMatchers"`
	QuestionSets     map[string][]string `yaml:"questionSets"`
	CompanyValues    []CompanyValues     `yaml:"companyValues"`
}

type matcher struct {
	key       string
	questions []string
}

// Catalog is immutable after Load; accessors return copies.
type Catalog struct {
	roles     []string
	companies []string
	levels    []string
	general   []string
	matchers  []matcher
	values    map[string]CompanyValues
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(defaultData)
}

// LoadFile reads a catalog from path, or the embedded catalog when path is empty.
func LoadFile(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	return LoadObject(context.Background(), local.New(filepath.Dir(path)), filepath.Base(path))
}

// LoadObject reads the catalog document stored under key.
func LoadObject(ctx context.Context, store object.Store, key string) (*Catalog, error) {
	data, err := object.ReadAll(ctx, store, key)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Load(data)
}

// Load decodes and validates a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return nil, err
	}

	c := &Catalog{
		roles:     clone(doc.Roles),
		companies: clone(doc.Companies),
		levels:    clone(doc.ExperienceLevels),
		general:   clone(doc.GeneralQuestions),
		values:    make(map[string]CompanyValues, len(doc.CompanyValues)),
	}
	for _, m := range doc.RoleMatchers {
		c.matchers = append(c.matchers, matcher{
			key:       strings.ToLower(strings.TrimSpace(m.Key)),
			questions: clone(doc.QuestionSets[m.Questions]),
		})
	}
	for _, v := range doc.CompanyValues {
		v.Principles = clone(v.Principles)
		c.values[v.Name] = v
	}
	return c, nil
}

func validateDocument(doc document) error {
	var problems []string
	if len(doc.Roles) == 0 {
		problems = append(problems, "roles is empty")
	}
	if len(doc.Companies) == 0 {
		problems = append(problems, "companies is empty")
	}
	if len(doc.ExperienceLevels) == 0 {
		problems = append(problems, "experienceLevels is empty")
	}
	if len(doc.GeneralQuestions) == 0 {
		problems = append(problems, "generalQuestions is empty")
	}
	for i, m := range doc.RoleMatchers {
		if strings.TrimSpace(m.Key) == "" {
			problems = append(problems, fmt.Sprintf("roleMatchers[%d].key is empty", i))
		}
		if len(doc.QuestionSets[m.Questions]) == 0 {
			problems = append(problems, fmt.Sprintf("roleMatchers[%d] references unknown or empty question set %q", i, m.Questions))
		}
	}
	seen := make(map[string]struct{}, len(doc.CompanyValues))
	for i, v := range doc.CompanyValues {
		if strings.TrimSpace(v.Name) == "" {
			problems = append(problems, fmt.Sprintf("companyValues[%d].name is empty", i))
			continue
		}
		if _, dup := seen[v.Name]; dup {
			problems = append(problems, fmt.Sprintf("companyValues %q is duplicated", v.Name))
		}
		seen[v.Name] = struct{}{}
		if len(v.Principles) == 0 {
			problems = append(problems, fmt.Sprintf("companyValues %q has no principles", v.Name))
		}
	}
	if len(problems) > 0 {
		return errors.New("invalid catalog: " + strings.Join(problems, "; "))
	}
	return nil
}

// Roles returns the selectable role names.
func (c *Catalog) Roles() []string { return clone(c.roles) }

// Companies returns the selectable company names.
func (c *Catalog) Companies() []string { return clone(c.companies) }

// ExperienceLevels returns the selectable experience levels.
func (c *Catalog) ExperienceLevels() []string { return clone(c.levels) }

// Questions returns the general questions followed by the questions of the
// first role matcher whose key appears in role, skipping duplicates.
func (c *Catalog) Questions(role string) []string {
	out := clone(c.general)
	specific := c.questionsFor(role)
	if len(specific) == 0 {
		return out
	}
	seen := make(map[string]struct{}, len(out)+len(specific))
	for _, q := range out {
		seen[q] = struct{}{}
	}
	for _, q := range specific {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

func (c *Catalog) questionsFor(role string) []string {
	role = strings.ToLower(role)
	if role == "" {
		return nil
	}
	for _, m := range c.matchers {
		if strings.Contains(role, m.key) {
			return m.questions
		}
	}
	return nil
}

// CompanyValues looks a company up by exact name.
func (c *Catalog) CompanyValues(name string) (CompanyValues, bool) {
	v, ok := c.values[name]
	if !ok {
		return CompanyValues{}, false
	}
	v.Principles = clone(v.Principles)
	return v, true
}

// ValuesOrEmpty returns the company's values, or a value with no principles
// for companies the catalog does not know.
func (c *Catalog) ValuesOrEmpty(name string) CompanyValues {
	if v, ok := c.CompanyValues(name); ok {
		return v
	}
	return CompanyValues{Name: name, Principles: []string{}}
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
