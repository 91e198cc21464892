package domain

import "strings"

// DigitService turns a drawing into the model's revelation. It holds no per-query state: each call builds its
// VisionQuery, uses it once and forgets it.
type DigitService struct {
	visionModel VisionModel
	inspector   CanvasInspector
	basePrompt  string
}

func NewDigitService(visionModel VisionModel, inspector CanvasInspector, basePrompt string) *DigitService {
	if basePrompt == "" {
		basePrompt = DefaultBasePrompt
	}
	return &DigitService{
		visionModel: visionModel,
		inspector:   inspector,
		basePrompt:  basePrompt,
	}
}

// Recognize validates the drawing and the credential before any network I/O, then asks the model.
// `followUp` is an optional question appended to the prompt.
func (d *DigitService) Recognize(image []byte, followUp, credential string) (string, error) {
	if strings.TrimSpace(credential) == "" {
		return "", NewVisionError("a credential is required to query the model")
	}
	mimeType, err := d.inspector.Inspect(image)
	if err != nil {
		return "", err
	}
	query := VisionQuery{
		Image:      image,
		MIMEType:   mimeType,
		Prompt:     BuildPrompt(d.basePrompt, followUp),
		Credential: credential,
	}
	return d.visionModel.Ask(query.Image, query.MIMEType, query.Prompt, query.Credential)
}
