package config

const (
	// MaxRequestBytes caps HTTP request bodies, imported files included.
	MaxRequestBytes = 10 << 20

	// DefaultVersionRollover is the minor number a document version may reach
	// before the next save rolls over into a new major.
	DefaultVersionRollover = 10

	// RootFolderName is the name of the folder every user is created with.
	RootFolderName = "Root"
)
