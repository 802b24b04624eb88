package study

import "ai-studyguide-be/pkg/genai"

// Response contracts for the two structured completions. Declared separately
// from the calls so tests can validate canned responses against them without
// network access.

func DomainCheckSchema() *genai.Schema {
	return genai.Object(map[string]*genai.Schema{
		"detected_domain": genai.StringEnum(DomainDentistry, DomainMedicine, DomainComputerScience, DomainOther),
		"confidence":      genai.Number(),
		"evidence":        genai.Array(genai.String()),
		"decision":        genai.StringEnum(DecisionContinue, DecisionDomainMismatch),
	}, "detected_domain", "confidence", "decision")
}

func citationSchema() *genai.Schema {
	return genai.Object(map[string]*genai.Schema{
		"page":  genai.Number(),
		"quote": genai.String(),
	}, "page", "quote")
}

func quizItemSchema() *genai.Schema {
	return genai.Object(map[string]*genai.Schema{
		"qid":         genai.String(),
		"type":        genai.StringEnum(QuizTypeMCQ, QuizTypeShort, QuizTypeTrueFalse),
		"stem":        genai.String(),
		"choices":     genai.Array(genai.String()),
		"answer":      genai.String(),
		"explanation": genai.String(),
		"citation":    citationSchema(),
		"bloom":       genai.StringEnum("remember", "understand", "apply", "analyze", "evaluate", "create"),
	}, "qid", "type", "stem", "answer", "explanation", "citation", "bloom")
}

func StudyGuideSchema() *genai.Schema {
	return genai.Object(map[string]*genai.Schema{
		"quick_summary": genai.StringWithDescription("6-10 sentences that summarize the entire document."),
		"primary_study": genai.Array(genai.Object(map[string]*genai.Schema{
			"topic_id":   genai.String(),
			"objectives": genai.Array(genai.String()),
			"key_points": genai.Array(genai.String()),
			"examples":   genai.Array(genai.String()),
			"citations":  genai.Array(citationSchema()),
		}, "topic_id", "objectives", "key_points", "citations")),
		"secondary_study": genai.Array(genai.Object(map[string]*genai.Schema{
			"topic_id":              genai.String(),
			"deep_explanations":     genai.Array(genai.String()),
			"common_misconceptions": genai.Array(genai.String()),
			"advanced_notes":        genai.Array(genai.String()),
			"citations":             genai.Array(citationSchema()),
		}, "topic_id", "deep_explanations", "citations")),
		"glossary": genai.Array(genai.Object(map[string]*genai.Schema{
			"term":       genai.String(),
			"definition": genai.String(),
			"page":       genai.Number(),
		}, "term", "definition", "page")),
		"concept_map": genai.Array(genai.Object(map[string]*genai.Schema{
			"from":     genai.String(),
			"to":       genai.String(),
			"relation": genai.String(),
		}, "from", "to", "relation")),
		"micro_quizzes": genai.Array(genai.Object(map[string]*genai.Schema{
			"topic_id": genai.String(),
			"items":    genai.Array(quizItemSchema()),
		}, "topic_id", "items")),
		"final_assessment": genai.Object(map[string]*genai.Schema{
			"items":                   genai.Array(quizItemSchema()),
			"time_suggestion_minutes": genai.Number(),
		}, "items", "time_suggestion_minutes"),
	},
		"quick_summary", "primary_study", "secondary_study", "glossary",
		"concept_map", "micro_quizzes", "final_assessment",
	)
}
