package transport

import (
	"context"
	"net/http"
	"strings"
)

// EmployeeHeader identifies the employee whose records a request works on.
const EmployeeHeader = "X-Employee-Number"

type employeeKey struct{}

// EmployeeFromContext returns the employee number from context, if present.
func EmployeeFromContext(ctx context.Context) (string, bool) {
	employee, ok := ctx.Value(employeeKey{}).(string)
	return employee, ok && employee != ""
}

// WithEmployee stores the employee number in ctx.
func WithEmployee(ctx context.Context, employee string) context.Context {
	return context.WithValue(ctx, employeeKey{}, employee)
}

// EmployeeMiddleware requires the employee header and stores it in context.
func EmployeeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		employee := strings.TrimSpace(r.Header.Get(EmployeeHeader))
		if employee == "" {
			writeAPIError(w, http.StatusUnauthorized, &APIError{Code: "MISSING_EMPLOYEE", Message: "missing " + EmployeeHeader + " header"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithEmployee(r.Context(), employee)))
	})
}
