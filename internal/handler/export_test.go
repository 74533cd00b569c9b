package handler

// APIExplanation re-exports apiExplanation so the external handler_test
// package can decode API responses.
type APIExplanation = apiExplanation
