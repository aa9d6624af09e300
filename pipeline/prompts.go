package pipeline

import (
	"fmt"
	"strings"
)

// DefaultLanguage is the language answers are written in
const DefaultLanguage = "English"

// AnalysisSections are the section headings requested from the analysis model
var AnalysisSections = []string{
	"Image Type and Region",
	"Relevant Findings",
	"Diagnostic Assessment",
	"Plain-Language Explanation",
}

var analystBackground = []string{
	"- You are an expert in diagnostic imaging.",
	"- You analyze medical images such as photographs, X-rays, MRI, CT and ultrasound scans.",
}

var researcherBackground = []string{
	"- You are a medical researcher responsible for finding supplementary information about the identified findings.",
	"- Provide recent literature and reliable sources.",
}

var researcherSteps = []string{
	"- Extract the main findings and diagnostic hypotheses from the analysis.",
	"- Search the web for current articles and protocols about them, prefer PubMed, medical societies and peer reviewed journals.",
	"- Read a page when the search snippet is not enough to judge the source.",
}

// AnalysisPrompt returns the diagnostic instruction sent with the image
func AnalysisPrompt(language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return fmt.Sprintf(`Analyze the medical image and organize the answer in %s with the following sections:

### 1. %s
- Identify the type of exam (X-ray, MRI, CT, etc.).
- Indicate the anatomical region and the technical quality.

### 2. %s
- List the significant visual findings.
- Point out possible anomalies.

### 3. %s
- Provide the main diagnosis with a confidence level (high, moderate, low).
- List differential diagnoses and their visual justification.

### 4. %s
- Translate the findings into simple language for the patient.
`, language, AnalysisSections[0], AnalysisSections[1], AnalysisSections[2], AnalysisSections[3])
}

// ResearchPrompt embeds the analysis into the research request
func ResearchPrompt(analysis string, language string) string {
	if language == "" {
		language = DefaultLanguage
	}
	return fmt.Sprintf(`Based on the following medical image analysis, perform a supplementary search.
 - Use the web search tool to find current articles and protocols.
 - Provide 2 to 3 reliable links or references.
 - Organize the answer in markdown, written in %s.

Medical analysis result: "%s"
`, language, analysis)
}

// MissingSections returns the requested section headings absent from text
func MissingSections(text string) []string {
	lower := strings.ToLower(text)
	var ret []string
	for _, section := range AnalysisSections {
		if !strings.Contains(lower, strings.ToLower(section)) {
			ret = append(ret, section)
		}
	}
	return ret
}
