package summary

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
)

// defaultSystemPrompt fixes the structure of the generated report. The
// SUMMARY_PROMPT_PATH config key can point at a file overriding it.
const defaultSystemPrompt = `You are a medical scribe. Analyze the following doctor-patient conversation and provide a structured medical summary in this format:

1. CHIEF COMPLAINT/SYMPTOMS:
   - List all symptoms mentioned by the patient

2. MEDICAL HISTORY:
   - Relevant medical history discussed

3. DIAGNOSIS/ASSESSMENT:
   - Doctor's diagnosis or assessment

4. MEDICATIONS PRESCRIBED:
   - List any medications discussed or prescribed

5. TREATMENT PLAN:
   - Recommended treatments or interventions

6. FOLLOW-UP ACTIONS:
   - Next steps, follow-up appointments, or instructions

7. KEY CONCERNS:
   - Important points requiring attention

Be concise but thorough. If any section has no relevant information, state "None mentioned."`

// generate asks the model for a structured prose summary of the transcript
func (e *Extractor) generate(ctx context.Context, transcript string) (string, error) {
	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(e.systemPrompt),
			openai.UserMessage("Conversation:\n" + transcript),
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary completion failed: %w", err)
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("summary completion returned no content")
	}

	return completion.Choices[0].Message.Content, nil
}
