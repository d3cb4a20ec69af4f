package totp

import "time"

// timeNow is swapped in tests to verify the skew window deterministically.
var timeNow = time.Now
