// Package config loads the statehub CLI configuration.
//
// The configuration lives in $STATEHUB_HOME/config.yaml (by default
// ~/.statehub/config.yaml). Both file versions ever written by the CLI are
// accepted; version 1 files are upgraded in memory to version 2. Values are
// resolved with the precedence flag > environment > file > default, once,
// at process start, and the resulting [Config] is passed by value.
package config
