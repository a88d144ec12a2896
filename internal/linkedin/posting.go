package linkedin

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

const (
	FieldCompany     = "company"
	FieldTitle       = "job_title"
	FieldLocation    = "location"
	FieldDescription = "description"
)

// Posting maps a field name to its scraped value. A nil value marks a field
// the page did not provide.
type Posting map[string]*string

// Display is the typed view of the fields returned to API callers.
type Display struct {
	Title       *string `mapstructure:"job_title" json:"title"`
	Company     *string `mapstructure:"company" json:"company"`
	Location    *string `mapstructure:"location" json:"location"`
	Description *string `mapstructure:"description" json:"description"`
}

// EmptyPosting returns a posting with every known field present and absent.
func EmptyPosting() Posting {
	return Posting{
		FieldCompany:     nil,
		FieldTitle:       nil,
		FieldLocation:    nil,
		FieldDescription: nil,
	}
}

// Get returns the value of field and whether it was found on the page.
func (p Posting) Get(field string) (string, bool) {
	v, ok := p[field]
	if !ok || v == nil {
		return "", false
	}
	return *v, true
}

// Value returns the value of field or an empty string.
func (p Posting) Value(field string) string {
	v, _ := p.Get(field)
	return v
}

// Description is a shortcut for the description field.
func (p Posting) Description() string {
	return p.Value(FieldDescription)
}

// Criteria returns the fields that are not one of the known ones, sorted by key.
func (p Posting) Criteria() []string {
	keys := make([]string, 0, len(p))
	for key := range p {
		switch key {
		case FieldCompany, FieldTitle, FieldLocation, FieldDescription:
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Display decodes the display fields of the posting.
func (p Posting) Display() (Display, error) {
	var d Display
	if err := mapstructure.Decode(map[string]*string(p), &d); err != nil {
		return Display{}, fmt.Errorf("decode posting: %w", err)
	}
	return d, nil
}

func ptr(s string) *string { return &s }
