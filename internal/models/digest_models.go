package models

import "time"

// Digest is everything collected in one run, in configured community order.
type Digest struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Communities []CommunityDigest `json:"communities"`
}

type CommunityDigest struct {
	Name    string `json:"name"`
	Posts   []Post `json:"posts"`
	Summary string `json:"summary,omitempty"`
}

func (d Digest) Empty() bool {
	return len(d.Communities) == 0
}

func (d Digest) PostCount() int {
	n := 0
	for _, c := range d.Communities {
		n += len(c.Posts)
	}
	return n
}
