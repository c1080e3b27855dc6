package docsystem

import "fmt"

// Version is a two-part document version. Values are immutable: Next returns
// a new Version and never modifies the receiver.
type Version struct {
	Major int `json:"major" bson:"major"`
	Minor int `json:"minor" bson:"minor"`
}

// Next returns the version following v. Minor grows by one per save; once it
// would exceed rollover it resets to 0 and Major grows by one.
// A non-positive rollover bumps Major on every save.
func (v Version) Next(rollover int) Version {
	next := Version{Major: v.Major, Minor: v.Minor + 1}
	if next.Minor > rollover {
		next.Minor = 0
		next.Major++
	}
	return next
}

// Less reports whether v orders strictly before other.
func (v Version) Less(other Version) bool {
	if v.Major != other.Major {
		return v.Major < other.Major
	}
	return v.Minor < other.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}
