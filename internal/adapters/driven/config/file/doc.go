// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage with LECTERN_* overrides
//   - Watcher: reloads a ConfigStore when its file changes
package file
