package server

// Wire payloads for the Socket.IO event surface.

type statusPayload struct {
	Active  bool   `json:"active"`
	Message string `json:"message"`
}

type capturePayload struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	ImageURL string `json:"image_url,omitempty"`
}

type uploadRequest struct {
	Image string `json:"image"`
}

type audioRequest struct {
	Audio string `json:"audio"`
}

type transcriptionPayload struct {
	Transcription string `json:"transcription"`
}

type descriptionPayload struct {
	Response string `json:"response"`
	AudioURL string `json:"audio_url,omitempty"`
}

type messagePayload struct {
	Message string `json:"message"`
}
