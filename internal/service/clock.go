package service

import "time"

// now returns the current UTC time at second precision, which is what the
// DATETIME columns keep.
func now() time.Time { return time.Now().UTC().Truncate(time.Second) }
