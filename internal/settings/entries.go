package settings

import (
	"fmt"
	"reflect"
	"strings"
)

const maskedValue = "********"

// Entry is a single setting as shown to users.
type Entry struct {
	Key   string
	Value string
}

// Entries lists every setting in declaration order. Secret values are masked unless showSecrets is set.
func (s Settings) Entries(showSecrets bool) []Entry {
	var entries []Entry
	walkFields(reflect.ValueOf(s), func(key string, v reflect.Value, secret bool) {
		value := fmt.Sprint(v.Interface())
		if secret && !showSecrets {
			value = maskedValue
		}
		entries = append(entries, Entry{Key: key, Value: value})
	})
	return entries
}

func knownKeys() map[string]bool {
	keys := map[string]bool{}
	walkFields(reflect.ValueOf(Settings{}), func(key string, _ reflect.Value, _ bool) {
		keys[key] = true
	})
	return keys
}

// walkFields calls fn for every field carrying an env tag, descending into nested groups.
func walkFields(v reflect.Value, fn func(key string, v reflect.Value, secret bool)) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("env")
		if !ok {
			if field.Type.Kind() == reflect.Struct {
				walkFields(v.Field(i), fn)
			}
			continue
		}
		key, _, _ := strings.Cut(tag, ",")
		fn(key, v.Field(i), field.Tag.Get("secret") == "true")
	}
}
