package driven

// PromptStore provides access to LLM prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names return an error; known names fall back to the default.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names. Templates use text/template syntax.
const (
	// PromptClassifyClause asks for a JSON classification of one clause.
	// Fields: .Text, .SectionHint, .Topics, .Parties.
	PromptClassifyClause = "classify_clause"

	// PromptAnswerQuestion answers a lease question from numbered clauses.
	// Fields: .Question, .Context, .Metadata, .Portfolio, .AsksResponsibility.
	PromptAnswerQuestion = "answer_question"

	// PromptAnswerDocument answers a question from generic document excerpts.
	// Fields: .Question, .Context, .Title.
	PromptAnswerDocument = "answer_document"
)
