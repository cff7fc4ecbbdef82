package parser

import "fmt"

// BuildPrompt wraps resume text in the extraction directive.
func BuildPrompt(text string) string {
	return fmt.Sprintf(`You read resumes and turn them into structured data.
Capture everything the document says. Do not summarize, shorten or drop entries:
if the resume lists six jobs, return six jobs. Keep the original wording, dates
and numbers exactly as written ("Jan 2020", "Present", "CGPA 8.6/10", "+40%%").

Sections to look for anywhere in the document: header and contact details,
summary or objective, experience, education, skills, projects, certifications,
awards, publications, volunteer work, leadership and mentoring, languages,
hobbies, memberships, patents, conferences and talks, references.

Links:
- Prefer full URLs starting with http:// or https://.
- Labels such as "LinkedIn", "GitHub", "Portfolio", "Website" or "Blog" usually
  sit next to their URL.
- The text may end with an "[Extracted URLs]" block listing URLs taken from the
  PDF itself. Use it.
- Complete partial URLs, e.g. "linkedin.com/in/jane" becomes
  "https://www.linkedin.com/in/jane".

Skills: one flat list of every technical skill, tool, framework, methodology and
soft skill, including those only mentioned inside experience or project
descriptions and those grouped under category headers.

Reply with ONE JSON object and nothing else, using exactly these keys.
Use null for unknown single values and [] for empty lists.

{
  "name": string,
  "email": string,
  "phone": string,
  "location": string,
  "linkedin": string,
  "github": string,
  "portfolio": string,
  "summary": string,
  "skills": [string],
  "languages": [string, with proficiency when stated],
  "education": [{"degree", "field", "institution", "location", "start_date",
                 "graduation_date", "gpa", "honors", "coursework": [string], "thesis"}],
  "experience": [{"title", "company", "location", "start_date", "end_date",
                  "employment_type", "description", "responsibilities": [string],
                  "achievements": [string], "technologies": [string], "team_size",
                  "reports_to"}],
  "projects": [{"name", "description", "technologies": [string], "url",
                "github_url", "start_date", "end_date", "role", "team_size",
                "key_features": [string], "impact"}],
  "certifications": [{"name", "organization", "date", "expiry_date",
                      "credential_id", "credential_url"}],
  "awards": [string],
  "publications": [{"title", "authors", "venue", "date", "url"}],
  "volunteer_work": [{"organization", "role", "location", "start_date",
                      "end_date", "description", "hours"}],
  "leadership": [{"role", "organization", "description", "impact",
                  "start_date", "end_date"}],
  "hobbies": [string],
  "memberships": [string],
  "patents": [string],
  "conferences": [string],
  "references": [string]
}

Resume text:
%s`, text)
}
