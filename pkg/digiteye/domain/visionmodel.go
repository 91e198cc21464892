package domain

// VisionModel a remote model which can look at an image and answer a question about it.
type VisionModel interface {
	// Ask sends the image (with its MIME type) and the prompt. The credential is forwarded to the model provider
	// as is and must never be stored.
	Ask(image []byte, mimeType, prompt, credential string) (string, error)
}

// CanvasInspector checks the raw drawing before it's sent anywhere.
type CanvasInspector interface {
	// Inspect returns the MIME type of the image, or a *VisionError if the image is empty, blank or unsupported.
	Inspect(image []byte) (string, error)
}
