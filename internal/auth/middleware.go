package auth

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"movieapi/internal/metrics"
)

const (
	// LookupPath reads the token from the :token route parameter.
	LookupPath = "param:token"
	// LookupHeader reads a bearer token from the Authorization header.
	LookupHeader = "header:" + echo.HeaderAuthorization + ":Bearer "
	// LookupQuery reads the token from the ?token= query parameter.
	LookupQuery = "query:token"

	rejectReasonKey = "auth.reject_reason"
)

// GateResponse is the body returned when the gate rejects a request.
type GateResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Reason  Reason `json:"reason"`
}

// Gate returns middleware that admits a request only when it carries a token
// the codec verifies. tokenLookup uses echo-jwt syntax, e.g. LookupPath,
// LookupHeader or LookupQuery. Verification completes before next runs;
// rejected requests never reach next.
func Gate(codec *TokenCodec, tokenLookup string, logger *zap.Logger) echo.MiddlewareFunc {
	if tokenLookup == "" {
		tokenLookup = LookupPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: tokenLookup,
		ContextKey:  ClaimsContextKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := codec.Verify(token)
			if err != nil {
				c.Set(rejectReasonKey, ReasonOf(err))
				return nil, err
			}
			return claims, nil
		},
		SuccessHandler: func(c echo.Context) {
			claims, _ := c.Get(ClaimsContextKey).(*Claims)
			req := c.Request()
			c.SetRequest(req.WithContext(WithClaims(req.Context(), claims)))
			metrics.GateDecisions.WithLabelValues("admitted", "").Inc()
		},
		ErrorHandler: func(c echo.Context, err error) error {
			reason := ReasonMissing
			if r, ok := c.Get(rejectReasonKey).(Reason); ok {
				reason = r
			}
			metrics.GateDecisions.WithLabelValues("rejected", string(reason)).Inc()
			logger.Warn("access gate rejected request",
				zap.String("path", c.Path()),
				zap.String("reason", string(reason)),
				zap.Error(err),
			)
			return echo.NewHTTPError(http.StatusUnauthorized, GateResponse{
				Message: "unauthorized",
				Code:    "UNAUTHORIZED",
				Reason:  reason,
			})
		},
	})
}
