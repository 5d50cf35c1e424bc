// Package config provides user configuration management for boxes.
//
// This package manages a YAML-based configuration file that stores editor
// preferences and the list of recently opened documents. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/boxes/config.yaml or $HOME/.config/boxes/config.yaml
//   - macOS: $HOME/.config/boxes/config.yaml
//   - Windows: %LOCALAPPDATA%\boxes\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.RecordOpen("notes/todo.box", "todo", config.SourceFile)
//	registry.Preferences.ServerURL = "http://studio.local:8420"
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
