package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/linky/internal/ai"
	"github.com/spigell/linky/internal/linkedin"
	"github.com/spigell/linky/internal/logger"
	"github.com/spigell/linky/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a LinkedIn job once and print the result",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("resume", "r", "", "resume location: a path appended to the prefix, a full URL or a bucket key")
	scoreCmd.Flags().String("job", "", "LinkedIn job URL")
}

// scoreOutput is printed to stdout. Zero results carry no posting fields,
// mirroring the HTTP API.
type scoreOutput struct {
	Score        float64           `json:"compatibility_score"`
	ResumeSkills ai.SkillSet       `json:"resume_skills"`
	JobSkills    ai.SkillSet       `json:"job_skills"`
	Job          *linkedin.Display `json:"job,omitempty"`
	Criteria     map[string]string `json:"criteria,omitempty"`
}

func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(logger.Options{
		JSON:   viper.GetBool("json"),
		Debug:  viper.GetBool("debug"),
		Output: "stderr",
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	resumeLocation, err := flagOrPrompt(cmd, "resume", "Resume location")
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	jobLink, err := flagOrPrompt(cmd, "job", "LinkedIn job URL")
	if err != nil {
		logger.Fatal("exiting", zap.Error(err))
	}

	svc, err := newService(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the scoring service", zap.Error(err))
	}

	res, err := svc.Score(ctx, scoring.Request{
		ID:      uuid.NewString(),
		Resume:  resumeLocation,
		JobLink: jobLink,
	})
	if err != nil {
		logger.Fatal("scoring failed", zap.Error(err))
	}

	pretty, err := json.MarshalIndent(newScoreOutput(res), "", "  ")
	if err != nil {
		logger.Fatal("encoding the result", zap.Error(err))
	}

	fmt.Println(string(pretty))
}

func newScoreOutput(res *scoring.Result) scoreOutput {
	out := scoreOutput{
		Score:        res.Score,
		ResumeSkills: res.ResumeSkills,
		JobSkills:    res.JobSkills,
	}
	if res.Zero() {
		return out
	}

	job := res.Job
	out.Job = &job

	if keys := res.Posting.Criteria(); len(keys) > 0 {
		out.Criteria = make(map[string]string, len(keys))
		for _, key := range keys {
			if v, ok := res.Posting.Get(key); ok {
				out.Criteria[key] = v
			}
		}
	}

	return out
}

// flagOrPrompt returns the flag value or asks for it interactively.
func flagOrPrompt(cmd *cobra.Command, name, label string) (string, error) {
	if value := strings.TrimSpace(cmd.Flag(name).Value.String()); value != "" {
		return value, nil
	}

	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return errors.New("value is required")
			}
			return nil
		},
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", name, err)
	}

	return strings.TrimSpace(value), nil
}
