package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS - middleware для настройки Cross-Origin Resource Sharing.
// Разрешены только origins из CORS_ALLOW_ORIGINS.
// Пустой список или "*" открывает доступ всем origins, но без credentials.
func CORS(allowedOrigins []string) fiber.Handler {
	origins := strings.Join(allowedOrigins, ",")
	credentials := true
	if len(allowedOrigins) == 0 || containsWildcard(allowedOrigins) {
		origins = "*"
		credentials = false
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Accept,Authorization",
		AllowCredentials: credentials,
	})
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			return true
		}
	}
	return false
}
