// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recipeai

import (
	"bytes"
	"text/template"
)

// NoRecipeSentinel is the exact reply the extraction prompt asks the model
// to give for pages that hold no recipe.
const NoRecipeSentinel = "NO RECIPE FOUND"

// extractionSystem frames the extraction call.
const extractionSystem = "You transcribe recipes from cookbook pages. You never invent content that is not on the page."

// extractionPromptTmpl is the prompt sent to the model for each page. It
// asks for a faithful transcription of the recipe, or the sentinel when
// the page has none.
var extractionPromptTmpl = template.Must(template.New("extraction").Parse(`The following is the text of one page from a cookbook PDF. If the page contains a recipe, transcribe it faithfully: keep the title, every ingredient with its quantity, every preparation step in order, and any nutrition or serving information printed on the page. Preserve the original wording; do not paraphrase, summarize, or add commentary.

If the page contains no recipe (front matter, an index, a photo caption, a chapter divider), reply with exactly:
{{.Sentinel}}

Page text:
---
{{.Page}}
---
`))

// formatSystem frames the formatting call.
const formatSystem = "Extract structured recipe data as Markdown, including nutritional information from any format (nutrition labels, inline text, etc.)."

// formatPromptTmpl converts a transcribed recipe into the structured
// Markdown the recipe manager imports.
var formatPromptTmpl = template.Must(template.New("format").Parse(`Extract structured recipe data from the following text:
---
{{.Recipe}}
---
Format the output as structured Markdown. Each recipe should have:
- A ` + "`# Recipe Title`" + ` at the top
- A ` + "`## Macros`" + ` section that includes any nutritional information like:
  - Calories (cal/kcal)
  - Protein (g)
  - Carbohydrates (g)
  - Fat (g)
  Look for this information anywhere in the text, including in nutrition labels,
  nutrition facts panels, or inline text. Convert all formats to the standard format shown below.
- A ` + "`## Ingredients`" + ` section with ingredients formatted as ` + "`- Ingredient | Quantity | Brand/Type`" + `
  - Remove personal pronouns or phrases like "I used" or "We recommend"
  - Convert statements like "I used Brand X" to just "Brand X"
- A ` + "`## Instructions`" + ` section with numbered steps
  - Keep instructions objective and direct, removing personal pronouns

Return **only the structured Markdown recipes**, nothing else.

Example conversions:
Input: "1 scoop protein powder (I used 1UP brand)"
Output: "- Protein powder | 1 scoop | 1UP"

Input: "Nutrition: 345 calories, 40g protein, 21g carbs, 6g fat"
Output:
## Macros
- Calories: 345
- Protein: 40g
- Carbohydrates: 21g
- Fat: 6g

Input: "Nutrition Facts
Serving Size 1 cup (240g)
Amount Per Serving
Calories 240
Total Fat 8g
Total Carbohydrate 37g
Protein 8g"
Output:
## Macros
- Calories: 240
- Protein: 8g
- Carbohydrates: 37g
- Fat: 8g
`))

// renderExtractionPrompt executes the extraction template for one page.
func renderExtractionPrompt(pageText string) (string, error) {
	var buf bytes.Buffer
	err := extractionPromptTmpl.Execute(&buf, struct {
		Sentinel string
		Page     string
	}{Sentinel: NoRecipeSentinel, Page: pageText})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderFormatPrompt executes the formatting template for one transcript.
func renderFormatPrompt(recipeText string) (string, error) {
	var buf bytes.Buffer
	err := formatPromptTmpl.Execute(&buf, struct{ Recipe string }{Recipe: recipeText})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
