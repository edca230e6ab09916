package settings

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a Source backed by a YAML settings file whose top-level keys are
// setting names, for example:
//
//	CELERY_AMQP_EXCHANGE: tasks
//	CELERY_TASK_RESULT_EXPIRES: 3600
//	CELERY_AMQP_CONSUMER_QUEUES:
//	  default:
//	    exchange: tasks
//	    exchange_type: direct
//	    routing_key: tasks
type File struct {
	path   string
	values map[string]any
}

// LoadFile reads and parses the YAML file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	f, err := ParseFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.path = path
	return f, nil
}

// ParseFile parses YAML settings from data.
func ParseFile(data []byte) (*File, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	values := make(map[string]any, len(raw))
	for k, v := range raw {
		values[normalizeKey(k)] = v
	}
	return &File{values: values}, nil
}

// Path returns the file the settings were read from, if any.
func (f *File) Path() string {
	return f.path
}

// Lookup implements Source. Keys are matched case-insensitively.
func (f *File) Lookup(key string) (any, bool) {
	v, ok := f.values[normalizeKey(key)]
	return v, ok
}
