package permtest

import (
	"fmt"
	"time"
)

// Time scans the created_at column, which SQLite drivers hand back as unix
// seconds or as text depending on how the row was written.
type Time time.Time

func (t *Time) Scan(v interface{}) error {
	switch which := v.(type) {
	case int64:
		*t = Time(time.Unix(which, 0).UTC())
		return nil
	case int:
		*t = Time(time.Unix(int64(which), 0).UTC())
		return nil
	case time.Time:
		*t = Time(which)
		return nil
	case []byte:
		return t.parse(string(which))
	case string:
		return t.parse(which)
	}

	return fmt.Errorf("No appropriate type could be found to decode %v", v)
}

func (t *Time) parse(s string) error {
	vt, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		return err
	}
	*t = Time(vt)
	return nil
}

func (t Time) Time() time.Time {
	return time.Time(t)
}
