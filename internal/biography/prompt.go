package biography

import (
	"strings"
	"text/template"
)

var promptTemplate = template.Must(template.New("bio").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`You are an expert HR assistant tasked with creating engaging and professional employee biographies.

Based on the information provided, craft a compelling biography that highlights the employee's key attributes and experience.

Employee Name: {{.FullName}}
Position: {{.Position}}
Department: {{.Department}}
Years of Experience: {{.YearsOfExperience}}
Skills: {{join .Skills ", "}}

Write a bio that is approximately 100-150 words. Focus on making the bio sound professional and highlight the value this person brings to the company.
The bio should be written in a way that makes the employee sound like a valuable asset to the company.
Do not include any salutations or sign-offs.
Do not include any personal information outside of professional details.
`))

// Prompt renders the fixed drafting instructions for in.
func Prompt(in Input) (string, error) {
	var sb strings.Builder
	if err := promptTemplate.Execute(&sb, in); err != nil {
		return "", err
	}

	return sb.String(), nil
}
