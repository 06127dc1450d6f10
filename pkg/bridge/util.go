package bridge

import "encoding/json"

// ToType re-hydrates an opaque clientData value into a typed shape by
// round-tripping it through JSON. The server stores clientData verbatim as
// structured JSON, so this is lossless for anything the caller originally
// serialized.
func ToType(value any, target any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return WrapError(err, "failed to marshal client data")
	}
	if err := json.Unmarshal(data, target); err != nil {
		return WrapError(err, "failed to unmarshal client data into target type")
	}
	return nil
}
