package docsystem

const (
	// MaxDocumentNameLength is the maximum length for document names.
	MaxDocumentNameLength = 255

	// MaxFolderNameLength is the maximum length for folder names.
	MaxFolderNameLength = 255

	// MaxUserFieldLength bounds user name, name, surname and email.
	MaxUserFieldLength = 255

	// MaxKeywords is the maximum number of keywords a document may carry.
	MaxKeywords = 64

	// DefaultDocumentName is given to documents created empty.
	DefaultDocumentName = "New Document"
)
