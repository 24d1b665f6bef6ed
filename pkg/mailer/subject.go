package mailer

import (
	"time"

	"github.com/google/uuid"
)

// SubjectPrefix starts every newsletter subject line.
const SubjectPrefix = "AI Newsletter - "

// DateLayout formats the digest date in subjects and idempotency keys.
const DateLayout = "2006-01-02"

// recipientNamespace scopes the name-based UUIDs derived from recipient addresses.
var recipientNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://newsletter.local/recipient"))

// Subject returns the subject line for the digest of the given date.
func Subject(date time.Time) string {
	return SubjectPrefix + date.Format(DateLayout)
}

// IdempotencyKey identifies the single newsletter a recipient gets for a date.
// The address is hashed into a UUID so it never appears in provider logs.
func IdempotencyKey(date time.Time, recipient string) string {
	return "ai-newsletter/" + date.Format(DateLayout) + "/" +
		uuid.NewSHA1(recipientNamespace, []byte(recipient)).String()
}
