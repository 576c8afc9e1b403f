package driven

// ConfigStore is the persisted settings file. Keys are dotted paths such
// as "llm.provider"; values are whatever the file format decoded.
type ConfigStore interface {
	Get(key string) (any, bool)

	// Set records the value and writes the store through.
	Set(key string, value any) error

	// Keys lists stored keys, sorted.
	Keys() []string

	// Path locates the backing file, or ":memory:".
	Path() string
}
