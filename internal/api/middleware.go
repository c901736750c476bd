package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"contacts-service/internal/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	identityLocalsKey   = "identity"
	uploadFileLocalsKey = "uploadFile"
	uploadFormField     = "file"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
	authFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Rejected bearer credentials by reason",
		},
		[]string{"reason"},
	)
)

// AuthMiddleware verifies the bearer token and stores the caller's identity
// for the rest of the request.
func AuthMiddleware(verifier *jwt.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(authHeader, "Bearer ") {
			authFailuresTotal.WithLabelValues("missing").Inc()
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No authorization token provided"})
		}
		tokenString := strings.Split(authHeader, " ")[1]

		if !verifier.Configured() {
			slog.ErrorContext(c.UserContext(), "SUPABASE_JWT_SECRET is not configured")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Server configuration error"})
		}

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			slog.WarnContext(c.UserContext(), "Auth error",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)

			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				authFailuresTotal.WithLabelValues("expired").Inc()
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token expired"})
			case errors.Is(err, jwt.ErrInvalidToken):
				authFailuresTotal.WithLabelValues("invalid").Inc()
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
			default:
				authFailuresTotal.WithLabelValues("failed").Inc()
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Authentication failed"})
			}
		}

		c.Locals(identityLocalsKey, identity)

		return c.Next()
	}
}

func IdentityFromContext(c *fiber.Ctx) (jwt.Identity, error) {
	identity, ok := c.Locals(identityLocalsKey).(jwt.Identity)
	if !ok {
		return jwt.Identity{}, errors.New("identity not found in context")
	}
	return identity, nil
}

// UploadFilter accepts a single image in the "file" form field and rejects
// everything else before the upload handler runs.
func UploadFilter(maxBytes int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile(uploadFormField)
		if err != nil || file == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file provided"})
		}

		if !strings.HasPrefix(file.Header.Get(fiber.HeaderContentType), "image/") {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{"error": "Only image files are allowed"})
		}

		if file.Size > maxBytes {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{"error": "File too large"})
		}

		c.Locals(uploadFileLocalsKey, file)

		return c.Next()
	}
}

func uploadedFile(c *fiber.Ctx) (*multipart.FileHeader, bool) {
	file, ok := c.Locals(uploadFileLocalsKey).(*multipart.FileHeader)
	return file, ok
}

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Seconds()
		statusCode := c.Response().StatusCode()

		if err != nil {
			statusCode = statusFromError(err)
		}

		// Label values outlive the request, fasthttp reuses the method bytes.
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Route().Path)
		statusStr := fmt.Sprintf("%d", statusCode)

		httpRequestTotal.WithLabelValues(method, path, statusStr).Inc()
		httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		return err
	}
}
