package auth

import "context"

type contextKey string

const (
	contextKeySubject    contextKey = "subject"
	contextKeyCredential contextKey = "session_credential"
)

func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextKeySubject, subject)
}

func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(contextKeySubject).(string)
	return s
}

// WithSessionCredential stores the raw session cookie value so the token
// provider can forward it without re-reading the request.
func WithSessionCredential(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, contextKeyCredential, credential)
}

func SessionCredentialFromContext(ctx context.Context) string {
	c, _ := ctx.Value(contextKeyCredential).(string)
	return c
}
