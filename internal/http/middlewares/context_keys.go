package middlewares

type ctxKey string

const (
	CtxUserID    ctxKey = "auth.userID"
	CtxUsername  ctxKey = "auth.username"
	CtxRequestID ctxKey = "request_id"
)
