package content

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// decodeRecord fills a typed document from a validated record. Field names
// follow the json tags; unknown fields are ignored.
func decodeRecord(record map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("create decoder: %w", err)
	}
	if err := dec.Decode(record); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
