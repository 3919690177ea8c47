package dto

// QuizInputRequest is the body of POST /api/v1/quiz/{id}/input.
type QuizInputRequest struct {
	Value string `json:"value"`
}
