package logger

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	apperrors "github.com/wekeepgrowing/semo-customer/pkg/errors"
	"go.uber.org/zap"
)

// NewEchoRequestLogger logs every request through zap.
// 4xx responses are logged at warn, 5xx and handler errors at error.
func NewEchoRequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		HandleError:  true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogRequestID: true,
		LogUserAgent: true,
		LogStatus:    true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("request.remote_ip", v.RemoteIP),
				zap.String("request.method", v.Method),
				zap.String("request.uri", v.URI),
				zap.String("request.route", v.RoutePath),
				zap.String("request.user_agent", v.UserAgent),
				zap.String("request.request_id", v.RequestID),
				zap.Int("response.status", v.Status),
				zap.Duration("response.latency", v.Latency),
			}

			switch {
			case v.Error != nil:
				logger.Error("Request failed", append(fields, zap.Error(v.Error))...)
			case v.Status >= http.StatusInternalServerError:
				logger.Error("Server error", fields...)
			case v.Status >= http.StatusBadRequest:
				logger.Warn("Client error", fields...)
			default:
				logger.Info("Request completed", fields...)
			}
			return nil
		},
	})
}

// WithEchoLogger installs the zap logger and a JSON error handler on e.
func WithEchoLogger(e *echo.Echo, logger *zap.Logger) {
	e.Logger = NewEchoZapLogger(logger)

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		httpErr := apperrors.ToHTTPError(err)

		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP error",
				zap.Error(err),
				zap.Int("status", httpErr.Code),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path))
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.Code)
		} else {
			message, ok := httpErr.Message.(string)
			if !ok {
				message = http.StatusText(httpErr.Code)
			}
			err = c.JSON(httpErr.Code, echo.Map{"error": message})
		}
		if err != nil {
			logger.Error("Failed to send error response", zap.Error(err))
		}
	}
}

// EchoZapLogger implements echo.Logger on top of zap.
type EchoZapLogger struct {
	Logger *zap.Logger
}

// NewEchoZapLogger wraps logger for echo.
func NewEchoZapLogger(logger *zap.Logger) *EchoZapLogger {
	return &EchoZapLogger{Logger: logger}
}

func (l *EchoZapLogger) Output() io.Writer       { return &zapWriter{logger: l.Logger} }
func (l *EchoZapLogger) SetOutput(io.Writer)     {}
func (l *EchoZapLogger) Level() log.Lvl          { return log.INFO }
func (l *EchoZapLogger) SetLevel(log.Lvl)        {}
func (l *EchoZapLogger) SetHeader(string)        {}
func (l *EchoZapLogger) Prefix() string          { return "" }
func (l *EchoZapLogger) SetPrefix(string)        {}
func (l *EchoZapLogger) Print(i ...interface{})  { l.Logger.Sugar().Info(i...) }
func (l *EchoZapLogger) Debug(i ...interface{})  { l.Logger.Sugar().Debug(i...) }
func (l *EchoZapLogger) Info(i ...interface{})   { l.Logger.Sugar().Info(i...) }
func (l *EchoZapLogger) Warn(i ...interface{})   { l.Logger.Sugar().Warn(i...) }
func (l *EchoZapLogger) Error(i ...interface{})  { l.Logger.Sugar().Error(i...) }
func (l *EchoZapLogger) Fatal(i ...interface{})  { l.Logger.Sugar().Fatal(i...) }
func (l *EchoZapLogger) Panic(i ...interface{})  { l.Logger.Sugar().Panic(i...) }
func (l *EchoZapLogger) Printj(j log.JSON)       { l.Logger.Info("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Debugj(j log.JSON)       { l.Logger.Debug("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Infoj(j log.JSON)        { l.Logger.Info("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Warnj(j log.JSON)        { l.Logger.Warn("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Errorj(j log.JSON)       { l.Logger.Error("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Fatalj(j log.JSON)       { l.Logger.Fatal("json_message", zap.Any("json", j)) }
func (l *EchoZapLogger) Panicj(j log.JSON)       { l.Logger.Panic("json_message", zap.Any("json", j)) }

func (l *EchoZapLogger) Printf(format string, i ...interface{}) {
	l.Logger.Sugar().Infof(format, i...)
}

func (l *EchoZapLogger) Debugf(format string, i ...interface{}) {
	l.Logger.Sugar().Debugf(format, i...)
}

func (l *EchoZapLogger) Infof(format string, i ...interface{}) {
	l.Logger.Sugar().Infof(format, i...)
}

func (l *EchoZapLogger) Warnf(format string, i ...interface{}) {
	l.Logger.Sugar().Warnf(format, i...)
}

func (l *EchoZapLogger) Errorf(format string, i ...interface{}) {
	l.Logger.Sugar().Errorf(format, i...)
}

func (l *EchoZapLogger) Fatalf(format string, i ...interface{}) {
	l.Logger.Sugar().Fatalf(format, i...)
}

func (l *EchoZapLogger) Panicf(format string, i ...interface{}) {
	l.Logger.Sugar().Panicf(format, i...)
}

type zapWriter struct {
	logger *zap.Logger
}

func (w *zapWriter) Write(p []byte) (int, error) {
	w.logger.Info(string(p))
	return len(p), nil
}
