// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package recipeai

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// ExtractPage asks the model to transcribe the recipe on one page of text.
// It returns the transcript and whether a recipe was found. A sentinel
// reply or a blank page is an empty result, not an error.
func ExtractPage(ctx context.Context, client ModelClient, pageText string) (string, bool, error) {
	if strings.TrimSpace(pageText) == "" {
		return "", false, nil
	}

	prompt, err := renderExtractionPrompt(pageText)
	if err != nil {
		return "", false, fmt.Errorf("rendering extraction prompt: %w", err)
	}

	reply, err := client.Complete(ctx, extractionSystem, prompt)
	if err != nil {
		return "", false, fmt.Errorf("extraction call: %w", err)
	}

	if IsNoRecipe(reply) {
		return "", false, nil
	}
	return strings.TrimSpace(reply), true, nil
}

// FormatRecipe asks the model to reformat a transcript into the structured
// Markdown the recipe manager imports. Code fences around the reply are
// stripped.
func FormatRecipe(ctx context.Context, client ModelClient, transcript string) (string, error) {
	prompt, err := renderFormatPrompt(transcript)
	if err != nil {
		return "", fmt.Errorf("rendering format prompt: %w", err)
	}

	reply, err := client.Complete(ctx, formatSystem, prompt)
	if err != nil {
		return "", fmt.Errorf("formatting call: %w", err)
	}

	formatted := strings.TrimSpace(stripCodeFences(reply))
	if formatted == "" {
		return "", fmt.Errorf("model returned an empty formatted recipe")
	}
	return formatted, nil
}

// IsNoRecipe reports whether a model reply is the "no recipe on this page"
// sentinel. Matching is case-insensitive and tolerates the sentinel being
// wrapped in a short sentence, since models do not always echo it exactly.
func IsNoRecipe(reply string) bool {
	trimmed := strings.TrimSpace(reply)
	if trimmed == "" {
		return true
	}
	firstLine := strings.SplitN(trimmed, "\n", 2)[0]
	return strings.Contains(strings.ToLower(firstLine), "no recipe")
}

var codeFenceRe = regexp.MustCompile("(?m)^```[a-zA-Z]*[ \t]*$\n?")

// stripCodeFences removes Markdown code fence lines the model sometimes
// wraps its output in.
func stripCodeFences(s string) string {
	return codeFenceRe.ReplaceAllString(s, "")
}
