package domain

type CtxKey string

// KeyRequestID carries the per-request correlation ID set by the HTTP layer.
const KeyRequestID CtxKey = "RequestID"
