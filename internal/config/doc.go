// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.ganttd/ganttd.toml or OS-specific config directory)
// 3. Project config file (ganttd.toml or .ganttd.toml in the working directory)
// 4. Environment variables (GANTTD_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.ganttd/ganttd.toml (preferred)
// - Windows: %APPDATA%\ganttd\ganttd.toml
// - macOS: ~/Library/Application Support/ganttd/ganttd.toml
// - Linux/BSD: $XDG_CONFIG_HOME/ganttd/ganttd.toml or ~/.config/ganttd/ganttd.toml
//
// Project-level config locations (overrides user config):
// - ./ganttd.toml (preferred)
// - ./.ganttd.toml
package config
