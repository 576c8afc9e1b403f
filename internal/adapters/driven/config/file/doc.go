// Package file keeps user settings under ~/.scout: config.toml through
// ConfigStore, and prompt overrides under prompts/ through PromptStore.
package file
