package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Snowflake is a Discord id. On the wire it is a decimal string; bare
// numbers are accepted as well.
type Snowflake uint64

// String returns the decimal form.
func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// MarshalJSON encodes the id as a JSON string.
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts "123", 123 and null.
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = 0
		return nil
	}
	data = bytes.Trim(data, `"`)
	if len(data) == 0 {
		*s = 0
		return nil
	}

	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q: %w", data, err)
	}
	*s = Snowflake(v)
	return nil
}
