package constant

// Model labels selectable by the client. Switching models only swaps the
// persona text below; the request shape and backend never change.
const (
	ModelGeminiPro   = "gemini-pro"
	ModelGPT5Preview = "gpt5-preview"

	DefaultModel = ModelGeminiPro
)

const basePersona = "You are an English-speaking dental education expert. You cite evidence whenever possible and focus on actionable guidance for students preparing for clinics or exams."

// ClassifierPersona is used for domain detection regardless of the selected
// model label.
const ClassifierPersona = "You are an AI classifier. Your task is to identify the academic domain of a given text."

// GenerationPersonas maps a model label to the persona prepended to the
// study guide generation prompt.
var GenerationPersonas = map[string]string{
	ModelGeminiPro:   basePersona,
	ModelGPT5Preview: basePersona + " Assume GPT-5 level reasoning: deliver concise coaching remarks and emphasize decision points.",
}

// GenerationPersona returns the persona for a model label, falling back to
// the default model's persona for unknown labels.
func GenerationPersona(model string) string {
	if persona, ok := GenerationPersonas[model]; ok {
		return persona
	}
	return GenerationPersonas[DefaultModel]
}

func IsKnownModel(model string) bool {
	_, ok := GenerationPersonas[model]
	return ok
}
