package integrity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderName = "X-Integrity"

	windowSeconds = 60
)

// Checker validates the X-Integrity header: "<deviceId> <hex sha256(deviceId_bucket)>",
// where bucket is the unix time floored to the minute. The current and the
// previous window are accepted.
type Checker struct {
	now func() time.Time
}

func NewChecker(now func() time.Time) *Checker {
	if now == nil {
		now = time.Now
	}
	return &Checker{now: now}
}

func (c *Checker) Check(header string) bool {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return false
	}

	deviceID, got := parts[0], strings.ToLower(parts[1])

	bucket := windowStart(c.now())
	for _, b := range []int64{bucket, bucket - windowSeconds} {
		want := Hash(deviceID, b)
		if subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1 {
			return true
		}
	}

	return false
}

// Hash returns the expected hash for deviceID in the window starting at bucket.
func Hash(deviceID string, bucket int64) string {
	sum := sha256.Sum256([]byte(deviceID + "_" + strconv.FormatInt(bucket, 10)))
	return hex.EncodeToString(sum[:])
}

func windowStart(t time.Time) int64 {
	unix := t.Unix()
	return unix - unix%windowSeconds
}
