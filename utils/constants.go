// File: utils/constants.go
package utils

import "time"

// BookingLockPrefix is the prefix used for Redis booking lease keys.
const BookingLockPrefix = "lock:booking:"

// AuditWindow is how far back the webhook audit listing looks.
const AuditWindow = 24 * time.Hour

// AuditLimit caps the webhook audit listing.
const AuditLimit = 50
