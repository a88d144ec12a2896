package gemini

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/linky/internal/linkedin"
)

func TestCleanTextKeepsEntitySpacesFromPostings(t *testing.T) {
	html := `<html><body><div class="show-more-less-html__markup">5+&nbsp;years&nbsp;Golang&nbsp;and&nbsp;PostgreSQL</div></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	description := linkedin.NewExtractor().Extract(doc).Description()
	require.NotEmpty(t, description)

	clean := CleanText(description)
	assert.Equal(t, []string{"5", "years", "Golang", "and", "PostgreSQL"}, strings.Fields(clean))
	assert.NotContains(t, clean, "yearsGolang")
}

func TestCollapse(t *testing.T) {
	got := collapse("* **Go engineer**\n\n  with Kubernetes\t experience ")
	assert.Equal(t, "Go engineer** with Kubernetes experience", got)
}
