package ai

import "context"

// SkillSet is an ordered list of lower-cased, trimmed skill tokens. An empty
// set is a valid result.
type SkillSet []string

// SkillExtractor turns free text into skills. Implementations never fail:
// problems downgrade to an empty set.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text string) SkillSet
}

// BioWriter writes a short professional biography from resume text.
type BioWriter interface {
	WriteBio(ctx context.Context, resumeText string) (string, error)
}
