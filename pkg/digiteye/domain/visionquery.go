package domain

// VisionQuery is built for a single user action and discarded once the answer is shown.
type VisionQuery struct {
	Image      []byte
	MIMEType   string
	Prompt     string
	Credential string
}
