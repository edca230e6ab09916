// Package settings provides the sources operator overrides are read from:
// in-memory maps, YAML settings files and environment variables. A Chain
// layers sources with precedence CLI flags > YAML file > environment >
// built-in defaults and satisfies config.Provider.
package settings
