package filesystem

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"github.com/n5lib/n5"
)

// readAttributesFile reads and parses path as a JSON object, acquiring a
// shared lock for the duration of the read. A missing file or one that
// fails to parse as an object is treated as {} (§4.5 step 2 covers the
// mutating path the same way; readers get the same leniency since an
// absent attributes.json is a valid, empty node).
func readAttributesFile(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("n5: opening %s: %w", path, err)
	}
	defer f.Close()

	lock := flock.New(path)
	if err := lock.RLock(); err != nil {
		return nil, fmt.Errorf("n5: locking %s: %w", path, err)
	}
	defer lock.Unlock()

	return parseAttributesObject(f)
}

func parseAttributesObject(r *os.File) (map[string]any, error) {
	var obj map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&obj); err != nil {
		return map[string]any{}, nil
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

// writeAttributesFile deep-merges newAttrs into the JSON object stored
// at path, following §4.5: open read+write (create if absent), take an
// exclusive lock, merge, and rewrite only if the merge changed anything.
// The merge recurses into nested objects; any other conflict (including
// a new `null`) replaces the existing value outright.
func writeAttributesFile(path string, newAttrs map[string]any) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return fmt.Errorf("n5: opening %s: %w", path, err)
	}
	defer f.Close()

	lock := flock.New(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("n5: locking %s: %w", path, err)
	}
	defer lock.Unlock()

	existing, err := parseAttributesObject(f)
	if err != nil {
		return err
	}

	merged := deepCopy(existing)
	mergeInto(merged, newAttrs)

	if mapsEqualAsJSON(existing, merged) {
		return nil
	}

	encoded, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("n5: encoding %s: %w", path, err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("n5: rewinding %s: %w", path, err)
	}
	// Truncate before write: a shorter new serialization must not leave
	// trailing bytes from the old one.
	if err := f.Truncate(int64(len(encoded))); err != nil {
		return fmt.Errorf("n5: truncating %s: %w", path, err)
	}
	if _, err := f.Write(encoded); err != nil {
		return fmt.Errorf("n5: writing %s: %w", path, err)
	}
	return nil
}

// mergeInto recursively merges src into dst in place (§4.5 step 3): for
// each key in src, if both dst and src hold an object at that key,
// recurse; otherwise src's value replaces dst's (including null, which
// is a value here, not a deletion sentinel — see spec's open question).
func mergeInto(dst map[string]any, src map[string]any) {
	for k, v := range src {
		srcObj, srcIsObj := v.(map[string]any)
		dstObj, dstIsObj := dst[k].(map[string]any)
		if srcIsObj && dstIsObj {
			mergeInto(dstObj, srcObj)
			continue
		}
		dst[k] = v
	}
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if obj, ok := v.(map[string]any); ok {
			out[k] = deepCopy(obj)
		} else {
			out[k] = v
		}
	}
	return out
}

func mapsEqualAsJSON(a, b map[string]any) bool {
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	if err1 != nil || err2 != nil {
		return false
	}
	// json.Marshal emits map keys in sorted order; both encodings are
	// additionally normalized through an unmarshal/marshal round trip
	// before the byte comparison.
	return bytes.Equal(normalizeJSON(ab), normalizeJSON(bb))
}

func normalizeJSON(b []byte) []byte {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return b
	}
	out, err := json.Marshal(v)
	if err != nil {
		return b
	}
	return out
}

// toAnyMap converts the caller-facing map[string]any attribute payloads
// accepted by SetAttribute/SetAttributes into the form mergeInto expects
// (nested map[string]any rather than arbitrary struct values), by
// bouncing the value through JSON. This also gives set-then-get
// round-tripping the exact encoding a reopened container would see.
func toAnyMap(v any) (map[string]any, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", n5.ErrInvalidInput, err)
	}
	var m map[string]any
	if err := json.Unmarshal(encoded, &m); err != nil {
		return nil, fmt.Errorf("%w: attribute value is not a JSON object", n5.ErrInvalidInput)
	}
	return m, nil
}
