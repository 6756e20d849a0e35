// Package provider turns QGIS layer descriptors into Wegue layer fields: it
// tokenizes provider source strings, classifies layers and extracts the
// per-kind fields.
package provider

import (
	"strconv"
	"strings"
)

// Params is an ordered key/value set parsed from a provider source string.
// A repeated key is stored under a suffixed name (key, key_2, key_3, ...)
// so no value is lost.
type Params struct {
	keys   []string
	values map[string]string
}

// Add stores value under key, suffixing the key if it is already taken, and
// returns the key actually used.
func (p *Params) Add(key, value string) string {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	stored := key
	for n := 2; ; n++ {
		if _, taken := p.values[stored]; !taken {
			break
		}
		stored = key + "_" + strconv.Itoa(n)
	}
	p.keys = append(p.keys, stored)
	p.values[stored] = value
	return stored
}

// Get returns the value stored under exactly key.
func (p Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Lookup returns the first value whose key matches key case-insensitively.
// QGIS writes both "typename" and "typeName" depending on version.
func (p Params) Lookup(key string) (string, bool) {
	if v, ok := p.values[key]; ok {
		return v, true
	}
	for _, k := range p.keys {
		if strings.EqualFold(k, key) {
			return p.values[k], true
		}
	}
	return "", false
}

// All returns the values stored under key and its suffixed repeats in
// source order. Keys match case-insensitively.
func (p Params) All(key string) []string {
	var out []string
	for _, k := range p.keys {
		base := k
		if i := strings.LastIndexByte(k, '_'); i > 0 {
			if _, err := strconv.Atoi(k[i+1:]); err == nil {
				base = k[:i]
			}
		}
		if strings.EqualFold(k, key) || strings.EqualFold(base, key) {
			out = append(out, p.values[k])
		}
	}
	return out
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the stored keys in source order.
func (p Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of stored pairs.
func (p Params) Len() int {
	return len(p.keys)
}

// Map returns the pairs as a plain map.
func (p Params) Map() map[string]string {
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}
