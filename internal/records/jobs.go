package records

import (
	"strings"

	"github.com/spigell/resume-matcher/internal/matching"
)

func intPtr(v int) *int { return &v }

// SampleJobs returns the built-in postings used when no jobs are configured.
func SampleJobs() []*matching.Job {
	return []*matching.Job{
		{
			Title:              "Machine Learning Engineer",
			Company:            "NeuralNet Labs",
			Location:           "San Francisco (Hybrid)",
			Description:        "Developing NLP and Computer Vision models for healthcare.",
			HardRequiredSkills: []string{"Python"},
			SoftRequiredSkills: []string{"PyTorch", "TensorFlow", "SQL", "Scikit-Learn"},
			PreferredSkills:    []string{"Docker", "Kubernetes", "HuggingFace", "CUDA"},
			MinExperience:      3,
			MaxExperience:      intPtr(7),
			RoleType:           matching.RoleICSenior,
			MinSalary:          intPtr(140000),
			MaxSalary:          intPtr(190000),
			EducationKeywords:  []string{"Master's", "PhD", "Computer Science", "Mathematics"},
		},
		{
			Title:              "Junior Web Developer",
			Company:            "GreenSeed Startups",
			Location:           "Remote",
			Description:        "Maintaining frontend components and simple Python backends.",
			HardRequiredSkills: []string{"Python"},
			SoftRequiredSkills: []string{"HTML", "CSS", "JavaScript"},
			PreferredSkills:    []string{"Git", "Django", "Tailwind"},
			MinExperience:      0,
			MaxExperience:      intPtr(2),
			RoleType:           matching.RoleIC,
			MinSalary:          intPtr(60000),
			MaxSalary:          intPtr(85000),
			EducationKeywords:  []string{"Bachelor's", "Bootcamp"},
		},
		{
			Title:              "Engineering Manager",
			Company:            "Global Fintech",
			Location:           "New York",
			Description:        "Leading a team of 10 backend engineers in the payments space.",
			HardRequiredSkills: []string{"System Design", "Project Management"},
			SoftRequiredSkills: []string{"Python"},
			PreferredSkills:    []string{"Agile", "Mentorship", "Fintech Experience", "AWS"},
			MinExperience:      8,
			RoleType:           matching.RoleLeadership,
			MinSalary:          intPtr(180000),
			MaxSalary:          intPtr(250000),
			EducationKeywords:  []string{"Business", "Computer Science", "Management"},
		},
	}
}

// FindJob returns the job with the given title, ignoring case, or nil.
func FindJob(jobs []*matching.Job, title string) *matching.Job {
	for _, job := range jobs {
		if strings.EqualFold(job.Title, strings.TrimSpace(title)) {
			return job
		}
	}
	return nil
}

// JobTitles returns the titles of jobs in order.
func JobTitles(jobs []*matching.Job) []string {
	titles := make([]string, 0, len(jobs))
	for _, job := range jobs {
		titles = append(titles, job.Title)
	}
	return titles
}
