package model

// Placeholder values used when a header is missing from a message.
// Rendering suppresses CC/BCC rows that still hold their placeholder.
const (
	NoSubject     = "No Subject"
	UnknownSender = "Unknown Sender"
	NoRecipients  = "No Recipients"
	NoCC          = "No CC"
	NoBCC         = "No BCC"
	UnknownDate   = "Unknown Date"
)

// Metadata holds the six display headers of an email. Every field is
// always populated; absent headers carry their placeholder value.
type Metadata struct {
	Subject    string
	Sender     string
	Recipients string
	CC         string
	BCC        string
	Date       string
}

// HasCC reports whether the CC field holds a real value.
func (m Metadata) HasCC() bool {
	return m.CC != "" && m.CC != NoCC
}

// HasBCC reports whether the BCC field holds a real value.
func (m Metadata) HasBCC() bool {
	return m.BCC != "" && m.BCC != NoBCC
}

// AttachmentInfo describes a single extracted attachment.
type AttachmentInfo struct {
	// Name is the original filename from the message.
	Name string

	// Path is where the attachment was written, empty if not saved.
	Path string

	// Size is the decoded size in bytes.
	Size int64

	// ContentType is the attachment's MIME type.
	ContentType string
}

// Contact represents one address harvested from an email header.
type Contact struct {
	Name  string
	Email string

	// Type records which header the contact came from: from, to, cc, bcc.
	Type string
}
