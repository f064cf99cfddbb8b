// Package config loads typed configuration structs from environment
// variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11 so every
// component declares its own Config struct with `env` tags and loads it with
// a single call:
//
//	type Config struct {
//	    Issuer string `env:"MFA_ISSUER" envDefault:"Authly"`
//	    Pepper string `env:"MFA_CODE_PEPPER,required"`
//	}
//
//	var cfg Config
//	config.MustLoad(&cfg)
//
// Each configuration type is parsed at most once per process and cached by
// type name, so repeated loads from different call sites are cheap and
// consistent. The default .env file is read lazily before the first parse;
// its absence is not an error.
package config
