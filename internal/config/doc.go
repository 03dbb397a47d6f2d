// Package config loads tasker settings.
//
// Values are layered, later sources overriding earlier ones:
//
//  1. Defaults
//  2. User config file ($XDG_CONFIG_HOME/tasker/config.toml), or the file
//     named by --config
//  3. Project config file (tasker.toml in the working directory)
//  4. .env file in the working directory (never overrides variables that
//     are already set)
//  5. TASKER_* environment variables
//  6. CLI flags
package config
