package ollama

import (
	"fmt"
	"sort"
	"strings"

	"metadesc"
)

const promptTemplate = `You are an expert technical writer.

Your task is to write a single, compelling meta description for the provided documentation content.

Follow these rules strictly:
- Write ONE complete sentence between 120 and 160 characters.
- Use the active voice. Focus on what the user can DO or LEARN.
- Start the sentence with a verb (e.g., "Learn how to...", "Configure...", "Deploy...").
- Do NOT include specific version numbers unless they are critical to the content.
- Do NOT use self-referential phrases like "This chapter describes", "In this document", or "This section explains".
- NEVER mention that you are writing a "meta description", "summary", or any similar term.
- Your output must NOT contain any conversational filler, preamble, or explanations. Start the response directly with the first word of the description sentence.
- The sentence MUST be grammatically complete and MUST NOT end with a period.
- Avoid possessives that use an apostrophe. Rephrase the sentence if necessary (for example, instead of "the tool's settings", write "the tool settings").
- If the content is primarily a list of topics, describe the page as a central point for accessing that information.
%s- Maintain a neutral, professional, and direct tone. Avoid jargon, marketing language, and emojis.
- CRITICAL: Do NOT include any part of these instructions in your output. Output ONLY the meta description itself.

Page content:
---
%s
---

Your response must contain ONLY the meta description sentence, nothing else:
`

const retryTemplate = `You are an expert technical writer. Your previous attempt to write a meta description was too short.

You MUST now generate a longer, more detailed single-sentence description for the same content.

Follow these rules strictly:
- Your primary goal is to write a sentence that is between 120 and 160 characters.
- Expand on the key concepts. Explain what the user can achieve or understand from the content.
- Start the sentence with a verb (e.g., "Learn how to...", "Configure...", "Deploy...").
- Do NOT use self-referential phrases like "This chapter describes" or "This document explains".
- The sentence MUST be grammatically complete and MUST NOT end with a period.
- Avoid possessives that use an apostrophe.
- Your output must NOT contain any preamble or explanation. Start directly with the description.
%s- CRITICAL: Do NOT include any part of these instructions in your output. Output ONLY the meta description itself.

Page content:
---
%s
---

Your response must contain ONLY the meta description sentence, nothing else:
`

const validateTemplate = `You are an expert copy editor. Your task is to correct any grammatical errors, awkward phrasing, or structural issues in the following sentence.

Follow these rules strictly:
- The sentence must be a single, complete thought that is grammatically correct and easy to read.
- Do NOT change the original meaning or key technical terms.
- Remove any redundant or nonsensical phrases.
- Keep the sentence between 120 and 160 characters.
- Ensure the sentence does NOT end with a period.
- If the sentence is already perfect, return it unchanged.
- Output ONLY the corrected sentence. Do not add any preamble or explanation.

Original sentence:
---
%s
---
Corrected sentence:
`

// buildPrompt renders the primary synthesis prompt for an excerpt.
func buildPrompt(excerpt string, banned []string, entities *metadesc.EntityContext) string {
	return fmt.Sprintf(promptTemplate, styleHints(banned, entities), excerpt)
}

// buildRetryPrompt renders the amended prompt used for the single retry
// when the first response was too short.
func buildRetryPrompt(excerpt string, banned []string, entities *metadesc.EntityContext) string {
	return fmt.Sprintf(retryTemplate, styleHints(banned, entities), excerpt)
}

// buildValidatePrompt renders the grammar-correction prompt for a candidate
// sentence.
func buildValidatePrompt(sentence string) string {
	return fmt.Sprintf(validateTemplate, sentence)
}

// styleHints renders the banned-term and brand-name rules shared by the
// synthesis prompts. Both lists are sorted so prompts are stable between
// runs.
func styleHints(banned []string, entities *metadesc.EntityContext) string {
	var sb strings.Builder
	if len(banned) > 0 {
		terms := append([]string(nil), banned...)
		sort.Strings(terms)
		fmt.Fprintf(&sb, "- Do NOT use the following terms: %s.\n", strings.Join(terms, ", "))
	}
	if entities != nil && len(entities.Brands) > 0 {
		seen := make(map[string]bool, len(entities.Brands))
		brands := make([]string, 0, len(entities.Brands))
		for _, name := range entities.Brands {
			if !seen[name] {
				seen[name] = true
				brands = append(brands, name)
			}
		}
		sort.Strings(brands)
		fmt.Fprintf(&sb, "- Use these product and brand names verbatim when relevant: %s.\n", strings.Join(brands, ", "))
	}
	return sb.String()
}
