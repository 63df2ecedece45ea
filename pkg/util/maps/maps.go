package maps

import (
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Get returns the value for the given dotted key within nested maps.
func Get(m interface{}, key string) interface{} {
	var obj interface{} = m
	var val interface{} = nil

	parts := strings.Split(key, ".")
	for _, p := range parts {
		if v, isMap := obj.(map[string]interface{}); isMap {
			obj = v[p]
			val = obj
		} else {
			return nil
		}
	}
	return val
}

// Decode translates the input structure into the output structure using
// reflection. out must be a pointer to a map or struct. This is the
// documented way for task functions to bind their parameter map onto a
// typed struct.
func Decode(in, out interface{}) error {
	return mapstructure.Decode(in, out)
}

// Merge overlays the given maps left to right: keys of later maps override
// identically named keys of earlier ones, independently per key. Nil maps
// are permitted. The result is always a fresh map.
func Merge(layers ...map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{})
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
