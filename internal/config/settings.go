package config

import (
	"time"

	"github.com/spf13/viper"
)

// Application configuration keys read and written by the couch extension.
const (
	KeyDatabaseURI = "COUCH_DATABASE_URI"
	KeyURI         = "COUCH_URI"
	KeyUser        = "COUCH_USER"
	KeyPassword    = "COUCH_PASSWORD"
	KeyDB          = "COUCH_DB"
	KeyAuth        = "COUCH_AUTH"
	KeyTimeout     = "COUCH_TIMEOUT"
	KeyListenAddr  = "GCOUCH_LISTEN"
)

// Authentication modes accepted under KeyAuth.
const (
	AuthCookie = "cookie"
	AuthBasic  = "basic"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultListenAddr = ":8080"
)

// NewSettings returns an application settings store with defaults applied.
// Every key can be overridden by an environment variable of the same name.
func NewSettings() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyAuth, AuthCookie)
	v.SetDefault(KeyTimeout, defaultTimeout)
	v.SetDefault(KeyListenAddr, defaultListenAddr)
	v.AutomaticEnv()
	return v
}
