package driven

// Prompt names understood by every PromptStore.
const (
	// PromptAnswerSystem is the system message for answer synthesis. It is
	// used verbatim.
	PromptAnswerSystem = "answer_system"

	// PromptAnswerUser is a format string taking the question, the numbered
	// context blocks and the style hint, in that order.
	PromptAnswerUser = "answer_user"
)

// PromptStore serves prompt templates by name. Unknown names are an error;
// known names fall back to a built-in text when no override exists.
type PromptStore interface {
	Load(name string) (string, error)

	// Reload drops cached templates so edits on disk take effect.
	Reload()
}

// PromptStoreAware is implemented by services whose prompts can be
// overridden after construction.
type PromptStoreAware interface {
	SetPromptStore(store PromptStore)
}
