// Package form encodes configuration maps into the bracket-keyed
// form pairs the Paystream API expects.
//
// A nested map flattens into composite keys, so
//
//	Values{"card": Values{"number": "4242...", "exp_month": 12}}
//
// encodes as card[number]=4242...&card[exp_month]=12. Keys are emitted
// in sorted order so the encoding of a given map is stable.
package form

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Values holds the parameters of one API operation. A value may be a
// nested Values (or plain map), nil to omit the key entirely, or a
// scalar that stringifies onto the wire.
type Values map[string]any

// Pair is one key/value pair of the flattened encoding.
type Pair struct {
	Key   string
	Value string
}

// Flatten expands a single key and value into its wire pairs. A nil
// value produces no pairs, a map recurses with bracketed composite
// keys, and anything else produces one stringified pair.
func Flatten(key string, value any) []Pair {
	switch v := value.(type) {
	case nil:
		return nil
	case Values:
		return flattenMap(key, v)
	case map[string]any:
		return flattenMap(key, Values(v))
	case map[string]string:
		sub := make(Values, len(v))
		for k, s := range v {
			sub[k] = s
		}
		return flattenMap(key, sub)
	default:
		return []Pair{{Key: key, Value: stringify(v)}}
	}
}

func flattenMap(prefix string, vs Values) []Pair {
	var pairs []Pair
	for _, k := range sortedKeys(vs) {
		pairs = append(pairs, Flatten(prefix+"["+k+"]", vs[k])...)
	}
	return pairs
}

// Encode flattens every entry of vs, top-level keys in sorted order.
func Encode(vs Values) []Pair {
	var pairs []Pair
	for _, k := range sortedKeys(vs) {
		pairs = append(pairs, Flatten(k, vs[k])...)
	}
	return pairs
}

// URLEncode renders pairs as an application/x-www-form-urlencoded
// string, preserving their order.
func URLEncode(pairs []Pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

func sortedKeys(vs Values) []string {
	keys := make([]string, 0, len(vs))
	for k := range vs {
		keys = append(keys, k)
	}
	// Map iteration order is random; sort so encodings are stable.
	sort.Strings(keys)
	return keys
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case time.Time:
		return strconv.FormatInt(t.Unix(), 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}
