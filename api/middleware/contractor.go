package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dmorales-dev/tradeflow-backend/api/responses"
	pkgerrors "github.com/dmorales-dev/tradeflow-backend/pkg/errors"
	"github.com/dmorales-dev/tradeflow-backend/pkg/logger"
)

const contractorIDHeader = "X-Contractor-Id"

// ContractorContext resolves the acting contractor from the gateway-injected
// header and makes it available to handlers and log lines. Requests without a
// well-formed contractor id never reach a handler.
func ContractorContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(contractorIDHeader))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "X-Contractor-Id header required"))
				return
			}
			contractorID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "X-Contractor-Id must be a UUID"))
				return
			}

			ctx := WithContractorID(r.Context(), contractorID.String())
			if logg != nil {
				ctx = logg.WithContractorID(ctx, contractorID.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
