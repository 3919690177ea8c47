package service

import "errors"

// ErrClientClosed indicates the client has been closed.
var ErrClientClosed = errors.New("glossa: client is closed")

// ErrNoSession indicates an operation that needs source text ran before
// any text was set.
var ErrNoSession = errors.New("glossa: no source text has been set")

// ErrNoQuiz indicates a quiz operation ran while the quiz was not active.
var ErrNoQuiz = errors.New("glossa: quiz is not active")

// ErrQuizItemNotFound indicates the addressed quiz item does not exist.
var ErrQuizItemNotFound = errors.New("glossa: quiz item not found")
