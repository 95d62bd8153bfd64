package agent

import (
	"fmt"

	"github.com/goccy/go-json"
)

const promptTemplate = `
Please help me apply to a job:

1. First, navigate to %s, if you see a disclaimer, click on the "Visit site" button, the website is safe.
2. If there is a login page, use the provided credentials to login. Don't use them to create a new account.
3. If there are fields to fill, fill them with the information from the profile: %s
4. If there is a required field, and you don't have the information, use the ask_user tool to ask the user for the information.
5. If you need to upload a file, use the 'playwright_file_upload' action to upload the file. The path to the resume is at %s
`

// BuildPrompt renders the application instructions for a runner. A nil
// profile falls back to DefaultProfile.
func BuildPrompt(url string, profile *Profile, resumePath, instructions string) string {
	if profile == nil {
		profile = DefaultProfile()
	}
	profileJSON, _ := json.MarshalIndent(profile, "", "    ")
	prompt := fmt.Sprintf(promptTemplate, url, profileJSON, resumePath)
	if instructions != "" {
		prompt += fmt.Sprintf("\nHere are additional instructions: %s", instructions)
	}
	return prompt
}
