package n5test

import (
	"encoding/json"
	"fmt"

	"github.com/n5lib/n5"
)

func jsonRoundTrip(v any) ([]byte, error) {
	return json.Marshal(v)
}

func jsonUnmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// mergeInto mirrors the filesystem backend's attributes.json deep
// merge: nested objects recurse, anything else (including null)
// replaces outright.
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
