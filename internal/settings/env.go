package settings

import (
	"strings"

	"github.com/spf13/viper"
)

// Env is a Source reading environment variables. With a prefix of "APP" the
// setting CELERY_BACKEND is read from APP_CELERY_BACKEND; empty variables
// count as unset.
type Env struct {
	v *viper.Viper
}

// NewEnv returns an environment Source with an optional variable prefix.
func NewEnv(prefix string) *Env {
	v := viper.New()
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		v.SetEnvPrefix(prefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return &Env{v: v}
}

// Lookup implements Source.
func (e *Env) Lookup(key string) (any, bool) {
	if !e.v.IsSet(key) {
		return nil, false
	}
	return e.v.Get(key), true
}
