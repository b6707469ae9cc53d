// Copyright 2026 The Slabot Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads the slabot configuration file.
//
// Configuration comes from exactly one file, named by the --config flag
// or the SLABOT_CONFIG environment variable. There is no search path
// and no per-field environment override; secrets are referenced by
// name (telegram.token_env) or path (telegram.token_file), never
// inlined. String fields may use ${VAR} and ${VAR:-default}, which are
// expanded from the environment after loading.
//
// Files ending in .json or .jsonc are read as JSON with comments and
// trailing commas; anything else is YAML. Both use the same keys.
//
// An environment section (development, staging, production) overrides
// the base values when [Config].Environment names it, which is how a
// staging deployment points at a test chat without a second file.
//
// [Load] and [LoadFile] return a validated *Config. Treat it as
// read-only: components receive it (or values derived from it) at
// construction and never look configuration up on their own.
package config
