// Package config loads, validates, and defaults the TOML configuration for
// the matching engine.
//
// Configuration sections by subsystem:
//   - Paths: data directory, database location, log directory
//   - Matching: penalty weights and fuzzy-search bounds for the scorer
//   - Workers: batch parallelism
//   - Logging: log format and level
//
// The matching weights are deliberately exposed: the relative magnitudes are
// calibrated empirically rather than derived from the Code, and deployments
// with labeled validation sets are expected to tune them.
package config
