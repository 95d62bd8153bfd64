package agent

// Profile is the applicant data the runner fills forms from.
type Profile struct {
	FirstName  string       `json:"first_name,omitempty"`
	LastName   string       `json:"last_name,omitempty"`
	Email      string       `json:"email,omitempty"`
	Phone      string       `json:"phone,omitempty"`
	Address    string       `json:"address,omitempty"`
	LinkedIn   string       `json:"linkedin,omitempty"`
	GitHub     string       `json:"github,omitempty"`
	Website    string       `json:"website,omitempty"`
	Summary    string       `json:"summary,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Education  []Education  `json:"education,omitempty"`
}

type Experience struct {
	Title     string `json:"title"`
	Company   string `json:"company"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type Education struct {
	Degree    string `json:"degree"`
	School    string `json:"school"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// DefaultProfile is the stand-in applicant used when a request carries no
// profile of its own.
func DefaultProfile() *Profile {
	return &Profile{
		FirstName: "Thomas",
		LastName:  "Mueller",
		Email:     "thomas.mueller@example.com",
		Phone:     "+41781234567",
		Address:   "Müllerstrasse 123, 8000 Zürich, Switzerland",
		LinkedIn:  "https://www.linkedin.com/in/thomas-mueller",
		GitHub:    "https://github.com/thomas-mueller",
		Website:   "https://www.thomas-mueller.com",
		Summary:   "Thomas Mueller is a software engineer with 10 years of experience in the field of computer science.",
		Skills:    []string{"Python", "Java", "JavaScript", "React", "Node.js", "SQL", "NoSQL"},
		Experience: []Experience{
			{
				Title:     "Software Engineer",
				Company:   "Google",
				StartDate: "2020",
				EndDate:   "2023",
			},
			{
				Title:     "Software Engineer",
				Company:   "Facebook",
				StartDate: "2018",
				EndDate:   "2020",
			},
		},
		Education: []Education{
			{
				Degree:    "Master of Science in Computer Science",
				School:    "ETH Zurich",
				StartDate: "2016",
				EndDate:   "2020",
			},
		},
	}
}
