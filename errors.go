package glossa

import "github.com/glossalab/glossa/application/service"

// Exported errors for library consumers. They alias the application
// sentinels so errors.Is matches across layers.
var (
	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = service.ErrClientClosed

	// ErrNoSession indicates an operation that needs source text ran
	// before any text was set.
	ErrNoSession = service.ErrNoSession

	// ErrNoQuiz indicates a quiz operation ran while the quiz was not
	// active.
	ErrNoQuiz = service.ErrNoQuiz

	// ErrQuizItemNotFound indicates the addressed quiz item does not
	// exist.
	ErrQuizItemNotFound = service.ErrQuizItemNotFound
)
