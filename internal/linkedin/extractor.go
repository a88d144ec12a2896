package linkedin

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Rule fills one or more posting fields from a document. A rule that cannot
// find its nodes leaves its fields absent and does not affect other rules.
type Rule interface {
	Apply(doc *goquery.Selection, p Posting)
}

// FieldRule walks Path taking the first match at each step and stores either
// the trimmed text of the final node or its Attr attribute.
type FieldRule struct {
	Field string
	Path  []string
	Attr  string
}

func (r FieldRule) Apply(doc *goquery.Selection, p Posting) {
	p[r.Field] = nil

	node := doc
	for _, selector := range r.Path {
		node = node.Find(selector).First()
		if node.Length() == 0 {
			return
		}
	}

	if r.Attr == "" {
		p[r.Field] = ptr(strings.TrimSpace(node.Text()))
		return
	}

	if value, ok := node.Attr(r.Attr); ok {
		p[r.Field] = &value
	}
}

// ListRule reads label/value pairs from every Item under the first Container.
// Each pair becomes a field named after its label; items missing either part
// are skipped.
type ListRule struct {
	Container string
	Item      string
	Label     string
	Value     string
}

func (r ListRule) Apply(doc *goquery.Selection, p Posting) {
	list := doc.Find(r.Container).First()

	list.Find(r.Item).Each(func(_ int, item *goquery.Selection) {
		label := item.Find(r.Label).First()
		value := item.Find(r.Value).First()
		if label.Length() == 0 || value.Length() == 0 {
			return
		}

		p[CriterionKey(label.Text())] = ptr(strings.TrimSpace(value.Text()))
	})
}

// CriterionKey turns a criteria label such as "Seniority level" into "seniority_level".
func CriterionKey(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// DefaultRules matches the public LinkedIn job view markup.
var DefaultRules = []Rule{
	FieldRule{Field: FieldCompany, Path: []string{"div.top-card-layout__card", "a", "img"}, Attr: "alt"},
	FieldRule{Field: FieldTitle, Path: []string{"div.top-card-layout__entity-info", "h1"}},
	FieldRule{Field: FieldLocation, Path: []string{"span.topcard__flavor--bullet"}},
	ListRule{Container: "ul.description__job-criteria-list", Item: "li", Label: "h3", Value: "span"},
	FieldRule{Field: FieldDescription, Path: []string{"div.show-more-less-html__markup"}},
}

type Extractor struct {
	rules []Rule
}

// NewExtractor returns an extractor applying rules in order, DefaultRules when none are given.
func NewExtractor(rules ...Rule) *Extractor {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Extractor{rules: rules}
}

// Extract never fails: fields it cannot find are left absent.
func (e *Extractor) Extract(doc *goquery.Document) Posting {
	p := EmptyPosting()
	if doc == nil {
		return p
	}

	for _, rule := range e.rules {
		rule.Apply(doc.Selection, p)
	}

	return p
}
