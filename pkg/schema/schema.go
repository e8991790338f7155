package schema

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
)

func generateSchema[T any]() any {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}

// FlashcardSet is the structured-outputs shape for flashcard generation.
type FlashcardSet struct {
	Flashcards []Flashcard `json:"flashcards"`
}

var FlashcardSetSchema = generateSchema[FlashcardSet]()

// FlashcardsResponseFormat constrains compliant backends to the FlashcardSet
// shape; non-compliant ones still get the free-text fallback parse.
func FlashcardsResponseFormat() openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "flashcard_set",
		Description: openai.String("Flashcards generated from scraped page content"),
		Schema:      FlashcardSetSchema,
		Strict:      openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}
