// Package catalog holds the static curriculum: topics grouped by grade and
// the quiz levels inside each topic.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultTopicsYAML []byte

// Catalog is an immutable, ordered set of topics with lookup indices.
// Catalog order is grade ascending, then the order topics appear in the
// source file.
type Catalog struct {
	topics  []Topic
	byID    map[string]int
	byGrade map[int][]Topic
}

// def is the embedded catalog, built once by init.
var def *Catalog

func init() {
	c, err := Parse(defaultTopicsYAML)
	if err != nil {
		panic(err)
	}
	def = c
}

// Default returns the embedded curriculum.
func Default() *Catalog {
	return def
}

type fileFormat struct {
	Grades []struct {
		Grade  int     `yaml:"grade"`
		Topics []Topic `yaml:"topics"`
	} `yaml:"grades"`
}

// Parse builds a Catalog from YAML. Each topic inherits the grade of the
// block it is listed under.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	var topics []Topic
	for _, g := range f.Grades {
		for _, t := range g.Topics {
			t.Grade = g.Grade
			topics = append(topics, t)
		}
	}
	return New(topics)
}

// New validates topics and builds a Catalog preserving their order.
func New(topics []Topic) (*Catalog, error) {
	if err := validateTopics(topics); err != nil {
		return nil, err
	}

	c := &Catalog{
		topics:  slices.Clone(topics),
		byID:    make(map[string]int, len(topics)),
		byGrade: make(map[int][]Topic),
	}
	for i, t := range c.topics {
		c.byID[t.ID] = i
		c.byGrade[t.Grade] = append(c.byGrade[t.Grade], t)
	}
	return c, nil
}

// Topics returns every topic in catalog order.
func (c *Catalog) Topics() []Topic {
	return slices.Clone(c.topics)
}

// Len returns the number of topics.
func (c *Catalog) Len() int {
	return len(c.topics)
}

// Get returns a topic by ID.
func (c *Catalog) Get(id string) (Topic, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Topic{}, false
	}
	return c.topics[i], true
}

// ByGrade returns the topics of one grade in catalog order.
func (c *Catalog) ByGrade(grade int) []Topic {
	return slices.Clone(c.byGrade[grade])
}

// Grades returns the curriculum grades, ascending. Grades with no topics
// are included.
func (c *Catalog) Grades() []int {
	out := make([]int, 0, MaxGrade-MinGrade+1)
	for g := MinGrade; g <= MaxGrade; g++ {
		out = append(out, g)
	}
	return out
}

// ValidGrade reports whether g is inside the curriculum range.
func ValidGrade(g int) bool {
	return g >= MinGrade && g <= MaxGrade
}
