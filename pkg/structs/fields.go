package structs

import (
	"github.com/oleiade/reflections"
	"github.com/pkg/errors"
)

// GetField returns the value of the provided obj field. obj can whether be a structure or pointer to structure.
func GetField(obj any, name string) (any, error) {
	v, err := reflections.GetField(obj, name)
	return v, errors.Wrapf(err, "field %s", name)
}

// Pick returns the named fields of obj as a map keyed by field name.
func Pick(obj any, names ...string) (map[string]any, error) {
	fields := make(map[string]any, len(names))
	for _, name := range names {
		v, err := GetField(obj, name)
		if err != nil {
			return nil, err
		}
		fields[name] = v
	}
	return fields, nil
}
