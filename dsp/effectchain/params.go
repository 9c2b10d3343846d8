package effectchain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// ErrUnknownParam is returned when a step sets a parameter its effect does
// not read.
var ErrUnknownParam = errors.New("effectchain: unknown parameter")

// Params holds the parameters of one chain step, split by JSON kind.
// Objects and arrays are kept undecoded in Raw.
type Params struct {
	Num  map[string]float64
	Str  map[string]string
	Bool map[string]bool
	Raw  map[string]json.RawMessage
}

// GetNum safely extracts a numeric parameter, returning def if missing or invalid.
func (p Params) GetNum(key string, def float64) float64 {
	v, ok := p.Num[key]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// Len returns the number of parameters.
func (p Params) Len() int {
	return len(p.Num) + len(p.Str) + len(p.Bool) + len(p.Raw)
}

// Keys returns every parameter name in sorted order.
func (p Params) Keys() []string {
	keys := make([]string, 0, p.Len())
	for k := range p.Num {
		keys = append(keys, k)
	}
	for k := range p.Str {
		keys = append(keys, k)
	}
	for k := range p.Bool {
		keys = append(keys, k)
	}
	for k := range p.Raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// UnmarshalJSON sorts a JSON object's members into the typed maps. Null
// members are dropped.
func (p *Params) UnmarshalJSON(data []byte) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("effectchain: params must be an object: %w", err)
	}

	*p = Params{}
	for k, raw := range members {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		switch raw[0] {
		case 'n':
			continue
		case '"':
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return fmt.Errorf("effectchain: param %q: %w", k, err)
			}
			p.setStr(k, s)
		case 't', 'f':
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return fmt.Errorf("effectchain: param %q: %w", k, err)
			}
			p.setBool(k, b)
		case '{', '[':
			if p.Raw == nil {
				p.Raw = map[string]json.RawMessage{}
			}
			p.Raw[k] = append(json.RawMessage(nil), raw...)
		default:
			var v float64
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("effectchain: param %q: %w", k, err)
			}
			p.setNum(k, v)
		}
	}
	return nil
}

// MarshalJSON writes the parameters back as one flat object.
func (p Params) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, p.Len())
	for k, v := range p.Num {
		out[k] = v
	}
	for k, v := range p.Str {
		out[k] = v
	}
	for k, v := range p.Bool {
		out[k] = v
	}
	for k, v := range p.Raw {
		out[k] = v
	}
	return json.Marshal(out)
}

func (p *Params) setNum(k string, v float64) {
	if p.Num == nil {
		p.Num = map[string]float64{}
	}
	p.Num[k] = v
}

func (p *Params) setStr(k, v string) {
	if p.Str == nil {
		p.Str = map[string]string{}
	}
	p.Str[k] = v
}

func (p *Params) setBool(k string, v bool) {
	if p.Bool == nil {
		p.Bool = map[string]bool{}
	}
	p.Bool[k] = v
}

// paramReader consumes Params on behalf of a factory. The first type error
// sticks; done reports it or any key that was never read.
type paramReader struct {
	effect string
	p      Params
	used   map[string]struct{}
	err    error
}

func newParamReader(effect string, p Params) *paramReader {
	return &paramReader{effect: effect, p: p, used: map[string]struct{}{}}
}

func (r *paramReader) mark(key string) {
	r.used[key] = struct{}{}
}

func (r *paramReader) fail(key, want string) {
	if r.err == nil {
		r.err = fmt.Errorf("effectchain: %s param %q must be %s", r.effect, key, want)
	}
}

func (r *paramReader) has(key string) bool {
	_, n := r.p.Num[key]
	_, s := r.p.Str[key]
	_, b := r.p.Bool[key]
	_, o := r.p.Raw[key]
	return n || s || b || o
}

func (r *paramReader) num(key string) (float64, bool) {
	r.mark(key)
	v, ok := r.p.Num[key]
	if !ok {
		if r.has(key) {
			r.fail(key, "a number")
		}
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		r.fail(key, "finite")
		return 0, false
	}
	return v, true
}

func (r *paramReader) numOr(key string, def float64) float64 {
	if v, ok := r.num(key); ok {
		return v
	}
	return def
}

func (r *paramReader) integer(key string) (int, bool) {
	v, ok := r.num(key)
	if !ok {
		return 0, false
	}
	if v != math.Trunc(v) {
		r.fail(key, "an integer")
		return 0, false
	}
	return int(v), true
}

func (r *paramReader) str(key string) (string, bool) {
	r.mark(key)
	v, ok := r.p.Str[key]
	if !ok && r.has(key) {
		r.fail(key, "a string")
	}
	return v, ok
}

func (r *paramReader) flag(key string) (bool, bool) {
	r.mark(key)
	v, ok := r.p.Bool[key]
	if !ok && r.has(key) {
		r.fail(key, "a boolean")
	}
	return v, ok
}

func (r *paramReader) raw(key string) (json.RawMessage, bool) {
	r.mark(key)
	v, ok := r.p.Raw[key]
	if !ok && r.has(key) {
		r.fail(key, "an object or array")
	}
	return v, ok
}

func (r *paramReader) decode(key string, dst any) bool {
	raw, ok := r.raw(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("effectchain: %s param %q: %w", r.effect, key, err)
		}
		return false
	}
	return true
}

func (r *paramReader) done() error {
	if r.err != nil {
		return r.err
	}
	var unknown []string
	for _, k := range r.p.Keys() {
		if _, ok := r.used[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w for %s: %s", ErrUnknownParam, r.effect, strings.Join(unknown, ", "))
	}
	return nil
}

// numOpt appends fn(v) to opts when key is set.
func numOpt[O any](r *paramReader, opts *[]O, key string, fn func(float64) O) {
	if v, ok := r.num(key); ok {
		*opts = append(*opts, fn(v))
	}
}

// intOpt appends fn(v) to opts when key is set to an integral number.
func intOpt[O any](r *paramReader, opts *[]O, key string, fn func(int) O) {
	if v, ok := r.integer(key); ok {
		*opts = append(*opts, fn(v))
	}
}
