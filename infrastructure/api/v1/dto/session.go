// Package dto defines request bodies for the v1 API.
package dto

// SetTextRequest is the body of PUT /api/v1/session/text.
type SetTextRequest struct {
	Text string `json:"text"`
}

// StepRequest is the body of POST /api/v1/session/step. Direction is
// "next" or "back".
type StepRequest struct {
	Direction string `json:"direction"`
}

// SetModeRequest is the body of PUT /api/v1/session/mode.
type SetModeRequest struct {
	Mode string `json:"mode"`
}

// SetThemeRequest is the body of PUT /api/v1/session/theme.
type SetThemeRequest struct {
	Theme string `json:"theme"`
}
