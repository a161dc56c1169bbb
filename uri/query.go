package uri

import (
	"net/url"
	"strings"

	"braces.dev/errtrace"
	"github.com/go-viper/mapstructure/v2"

	"github.com/ghettovoice/gouri/internal/util"
)

// Param is a single decoded query parameter.
type Param struct {
	Key, Value string
}

// Params is an ordered list of query parameters with unique keys.
//
// Keys keep the position of their first occurrence, values follow the "last occurrence wins" rule.
// Methods never modify the receiver, they return a new list instead.
type Params []Param

// ParseQuery decodes the query string q into [Params].
//
// Pairs are separated by '&', '+' decodes to a space and percent escapes are unescaped.
// Pairs with an empty key are skipped. Malformed escapes are kept as is.
func ParseQuery(q string) Params {
	var ps Params
	for pair := range strings.SplitSeq(q, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		k = unescapeQueryComponent(k)
		if k == "" {
			continue
		}
		ps = ps.set(k, unescapeQueryComponent(v))
	}
	return ps
}

func unescapeQueryComponent(s string) string {
	us, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return us
}

// Get returns the value of the key and a bool flag indicating whether the key is present.
func (ps Params) Get(key string) (string, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Has checks whether the key is present.
func (ps Params) Has(key string) bool {
	_, ok := ps.Get(key)
	return ok
}

// Set returns a copy of the list with the key set to the value.
func (ps Params) Set(key, value string) Params {
	return ps.Clone().set(key, value)
}

func (ps Params) set(key, value string) Params {
	for i := range ps {
		if ps[i].Key == key {
			ps[i].Value = value
			return ps
		}
	}
	return append(ps, Param{key, value})
}

// Merge returns a copy of the list with all parameters of other set on it.
// Values of other overwrite values of the same keys, the rest is retained.
func (ps Params) Merge(other Params) Params {
	merged := ps.Clone()
	for _, p := range other {
		merged = merged.set(p.Key, p.Value)
	}
	return merged
}

// Clone returns a copy of the list.
func (ps Params) Clone() Params {
	if ps == nil {
		return nil
	}
	return append(make(Params, 0, len(ps)), ps...)
}

// Map returns the parameters as a map.
// The result is never nil.
func (ps Params) Map() map[string]string {
	m := make(map[string]string, len(ps))
	for _, p := range ps {
		m[p.Key] = p.Value
	}
	return m
}

// Encode encodes the parameters into the "key=value&..." form in the list order.
func (ps Params) Encode() string {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	for i, p := range ps {
		if i > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(p.Value))
	}
	return sb.String()
}

// QueryParams returns the decoded query parameters of the URI.
func (u URI) QueryParams() Params { return ParseQuery(u.Query()) }

// QueryMap returns the decoded query parameters of the URI as a map.
// An absent query yields an empty map.
func (u URI) QueryMap() map[string]string { return u.QueryParams().Map() }

// DecodeQuery decodes the query parameters of the URI into out,
// which must be a pointer to a struct or a map.
//
// Struct fields are matched by the "query" tag or by the field name,
// string values are weakly converted to the field types, e.g. "10" to int or "1" to bool.
func (u URI) DecodeQuery(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "query",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(dec.Decode(u.QueryMap()))
}
