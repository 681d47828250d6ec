package driven

// ConfigStore is the key/value layer under SettingsService. Keys are
// dotted paths such as "embedding.provider" or "retrieval.top_k".
//
// Typed getters return the zero value for a missing key or a value of the
// wrong type, so callers layer defaults on top.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string

	// GetInt accepts any integer type and whole floats.
	GetInt(key string) int

	// GetFloat widens integers.
	GetFloat(key string) float64

	// Set stores a value. File-backed stores persist it immediately.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is where the store persists, for display.
	Path() string
}
