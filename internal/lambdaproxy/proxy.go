// Package lambdaproxy serves API Gateway REST proxy events through the chi
// router, so the Lambda deployment and the standalone server share handlers.
package lambdaproxy

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"github.com/questionconnection/backend/internal/auth"
	"github.com/questionconnection/backend/internal/middleware"
)

const invalidEventBody = `{"error":"Request event could not be decoded","code":"INVALID_ENCODING"}`

// Adapter converts proxy events to HTTP requests and back.
type Adapter struct {
	proxy  *httpadapter.HandlerAdapter
	logger *slog.Logger
}

// New creates an Adapter around h. The authorizer subject and the API
// Gateway request id are copied onto each request before h runs.
func New(h http.Handler, logger *slog.Logger) *Adapter {
	return &Adapter{
		proxy:  httpadapter.New(GatewayContext(h)),
		logger: logger.With("component", "lambdaproxy"),
	}
}

// Handle serves one proxy event. It matches the lambda.Start handler signature.
// An event that cannot be turned into a request, such as a body that is not
// valid base64, is answered with 400 instead of failing the invocation.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := a.proxy.ProxyWithContext(ctx, event)
	if err != nil {
		a.logger.Warn("rejected proxy event",
			"request_id", event.RequestContext.RequestID,
			"path", event.Path,
			"error", err,
		)
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       invalidEventBody,
		}, nil
	}
	return resp, nil
}

// GatewayContext moves what API Gateway resolved for the event onto the
// request: the authorizer subject into the auth context, the request id into
// X-Amzn-RequestId and the caller's source IP into RemoteAddr.
func GatewayContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gw, ok := core.GetAPIGatewayContextFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if gw.RequestID != "" && r.Header.Get(middleware.AmznRequestIDHeader) == "" {
			r.Header.Set(middleware.AmznRequestIDHeader, gw.RequestID)
		}
		if r.RemoteAddr == "" {
			r.RemoteAddr = gw.Identity.SourceIP
		}
		if subject := SubjectFromAuthorizer(gw.Authorizer); subject != "" {
			r = r.WithContext(auth.ContextWithSubject(r.Context(), subject))
		}
		next.ServeHTTP(w, r)
	})
}

// SubjectFromAuthorizer returns claims.sub set by a Cognito user pool
// authorizer, falling back to the principal of a custom authorizer.
func SubjectFromAuthorizer(authorizer map[string]interface{}) string {
	if authorizer == nil {
		return ""
	}
	if claims, ok := authorizer["claims"].(map[string]interface{}); ok {
		if sub, ok := claims["sub"].(string); ok && sub != "" {
			return sub
		}
	}
	if principal, ok := authorizer["principalId"].(string); ok {
		return principal
	}
	return ""
}
