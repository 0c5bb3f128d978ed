package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must prefix keys by kind so directive and job keys never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// NewJobID returns a random job id.
func NewJobID() string {
	return uuid.NewString()
}

// DirectiveUUID is the correlation id of the ordinal-th directive of a job.
func DirectiveUUID(jobID string, ordinal int) uuid.UUID {
	return UUID("feecting:directive:" + strings.TrimSpace(jobID) + ":" + strconv.Itoa(ordinal))
}

// Sequence hands out directive ids for one parse. It is not safe for
// concurrent use; a parse runs on a single goroutine.
type Sequence struct {
	jobID string
	next  int
}

// NewSequence starts a sequence for jobID. An empty jobID gets a random one
// so ids stay unique across parses.
func NewSequence(jobID string) *Sequence {
	if strings.TrimSpace(jobID) == "" {
		jobID = NewJobID()
	}
	return &Sequence{jobID: jobID}
}

// Next returns the id for the next directive in source order.
func (s *Sequence) Next() string {
	s.next++
	return DirectiveUUID(s.jobID, s.next).String()
}

// Count reports how many ids were handed out.
func (s *Sequence) Count() int {
	return s.next
}
