package middleware

import "context"

type contextKey string

const ctxContractorID contextKey = "contractor_id"

func ContractorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxContractorID).(string); ok {
		return v
	}
	return ""
}

// WithContractorID injects the contractor identifier into the context.
func WithContractorID(ctx context.Context, contractorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxContractorID, contractorID)
}
