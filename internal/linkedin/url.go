package linkedin

import (
	"regexp"
	"strings"
)

const (
	baseURL         = "https://www.linkedin.com"
	collectionsPath = "linkedin.com/jobs/collections"
)

var currentJobIDRe = regexp.MustCompile(`currentJobId=(\d+)`)

// NormalizeURL rewrites a jobs collection link that points at a specific job
// (currentJobId=N) to the single job view, and returns any other URL unchanged.
func NormalizeURL(raw string) string {
	if !strings.Contains(raw, collectionsPath) {
		return raw
	}

	match := currentJobIDRe.FindStringSubmatch(raw)
	if match == nil {
		return raw
	}

	return ViewURL(match[1])
}

// ViewURL returns the canonical job view URL for a job id.
func ViewURL(jobID string) string {
	return baseURL + "/jobs/view/" + jobID
}
