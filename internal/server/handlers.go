package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spigell/linky/internal/ai"
	"github.com/spigell/linky/internal/scoring"
)

type scoreRequest struct {
	ResumeURL string `json:"resume_url"`
	JobLink   string `json:"jobLink"`
}

type scoreResponse struct {
	CompatibilityScore float64 `json:"compatibility_score"`
	Title              *string `json:"title"`
	Company            *string `json:"company"`
	Location           *string `json:"location"`
	Description        *string `json:"description"`
}

// zeroResponse is returned when either skill set is empty.
type zeroResponse struct {
	ResumeSkills    ai.SkillSet `json:"resume_skills"`
	JobSkills       ai.SkillSet `json:"job_skills"`
	SimilarityScore float64     `json:"similarity_score"`
}

type bioResponse struct {
	Bio string `json:"bio"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type detailResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"Hello": "Linky"})
}

func (s *Server) calculateScore(c *fiber.Ctx) error {
	var req scoreRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: fmt.Sprintf("invalid request body: %s", err)})
	}

	if strings.TrimSpace(req.ResumeURL) == "" || strings.TrimSpace(req.JobLink) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "resume_url and jobLink are required"})
	}

	res, err := s.svc.Score(c.UserContext(), scoring.Request{
		ID:      requestID(c),
		Resume:  req.ResumeURL,
		JobLink: req.JobLink,
	})
	switch {
	case errors.Is(err, scoring.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	case errors.Is(err, scoring.ErrResumeUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(errorResponse{
			Error: fmt.Sprintf("Failed to download the resume from the provided URL: %s", err),
		})
	case errors.Is(err, scoring.ErrResumeUnreadable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(errorResponse{
			Error: fmt.Sprintf("Failed to read the resume: %s", err),
		})
	case err != nil:
		return err
	}

	if res.Zero() {
		return c.JSON(zeroResponse{
			ResumeSkills:    nonNil(res.ResumeSkills),
			JobSkills:       nonNil(res.JobSkills),
			SimilarityScore: 0.0,
		})
	}

	return c.JSON(scoreResponse{
		CompatibilityScore: res.Score,
		Title:              res.Job.Title,
		Company:            res.Job.Company,
		Location:           res.Job.Location,
		Description:        res.Job.Description,
	})
}

func (s *Server) generateBio(c *fiber.Ctx) error {
	resumeURL := strings.TrimSpace(c.Query("resume_url"))
	if resumeURL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(detailResponse{Detail: "resume_url is required"})
	}

	bio, err := s.svc.Bio(c.UserContext(), scoring.Request{ID: requestID(c), Resume: resumeURL})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(detailResponse{Detail: err.Error()})
	}

	return c.JSON(bioResponse{Bio: bio})
}

func nonNil(s ai.SkillSet) ai.SkillSet {
	if s == nil {
		return ai.SkillSet{}
	}
	return s
}
