// Package config loads environment-based configuration into tagged structs.
//
// It combines godotenv (for local .env files) with caarlos0/env (for struct
// parsing). Every tunable in this module (provider scopes, page sizes,
// client registrations, gateway paths) is declared as an `env`-tagged
// struct and loaded through this package.
package config
