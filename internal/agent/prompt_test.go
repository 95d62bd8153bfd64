package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptDefaultProfile(t *testing.T) {
	prompt := BuildPrompt("https://jobs.example.com/swe-123", nil, "/data/uploads/abc.pdf", "")

	assert.Contains(t, prompt, "navigate to https://jobs.example.com/swe-123")
	assert.Contains(t, prompt, `"Visit site"`)
	assert.Contains(t, prompt, `"first_name": "Thomas"`)
	assert.Contains(t, prompt, `"email": "thomas.mueller@example.com"`)
	assert.Contains(t, prompt, "ask_user")
	assert.Contains(t, prompt, "'playwright_file_upload'")
	assert.Contains(t, prompt, "/data/uploads/abc.pdf")
	assert.NotContains(t, prompt, "additional instructions")
}

func TestBuildPromptCustomProfileAndInstructions(t *testing.T) {
	profile := &Profile{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	}
	prompt := BuildPrompt("https://jobs.example.com/ml-7", profile, "/data/uploads/cv.docx", "Ask for visa sponsorship.")

	assert.Contains(t, prompt, `"first_name": "Ada"`)
	assert.NotContains(t, prompt, "Thomas")
	assert.Contains(t, prompt, "Here are additional instructions: Ask for visa sponsorship.")
}

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	assert.Equal(t, "Thomas", p.FirstName)
	assert.Equal(t, "thomas.mueller@example.com", p.Email)
	assert.Len(t, p.Skills, 7)
	assert.Len(t, p.Experience, 2)
	assert.Len(t, p.Education, 1)
	assert.Equal(t, "ETH Zurich", p.Education[0].School)
}
