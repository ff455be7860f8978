package mcp

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// EmployeeHeader carries the employee number over HTTP.
const EmployeeHeader = "X-Employee-Number"

// employeeMetaKey carries the employee number in _meta over stdio.
const employeeMetaKey = "employee_number"

type contextKey int

const employeeKey contextKey = iota

// getEmployee extracts the employee number from context.
func getEmployee(ctx context.Context) string {
	v, _ := ctx.Value(employeeKey).(string)
	return v
}

// employeeMiddleware resolves the employee from the HTTP header, then from
// request metadata, then falls back to defaultEmployee.
func employeeMiddleware(defaultEmployee string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var employee string

			extra := req.GetExtra()
			if extra != nil && extra.Header != nil {
				employee = strings.TrimSpace(extra.Header.Get(EmployeeHeader))
			}

			// Some notifications (like "initialized") have nil params.
			if employee == "" {
				if params := req.GetParams(); params != nil {
					func() {
						defer func() { recover() }()
						if meta := params.GetMeta(); meta != nil {
							if v, ok := meta[employeeMetaKey].(string); ok {
								employee = strings.TrimSpace(v)
							}
						}
					}()
				}
			}

			if employee == "" {
				employee = defaultEmployee
			}
			if employee != "" {
				ctx = context.WithValue(ctx, employeeKey, employee)
			}
			return next(ctx, method, req)
		}
	}
}
