package rest

import (
	"context"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/domain"
	"listing-service/internal/core/port"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const viewerHeader = "X-Viewer-ID"

// SessionResolver превращает bearer-токен в сессию.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (domain.Session, error)
}

type viewerKeyType struct{}

var viewerKey = viewerKeyType{}

// SessionMiddleware кладет в контекст сессию из заголовка Authorization.
// Отсутствующий или негодный токен дает анонимную сессию: закрытые действия
// отклонит уже ядро.
func SessionMiddleware(resolver SessionResolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := domain.AnonymousSession()

			authHeader := r.Header.Get("Authorization")
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if authHeader != "" && tokenString != authHeader && resolver != nil {
				resolved, err := resolver.Resolve(r.Context(), tokenString)
				if err != nil {
					contextkeys.LoggerFromContext(r.Context()).Info("Bearer token rejected, continuing anonymously", port.Fields{"error": err.Error()})
				} else {
					session = resolved
				}
			}

			ctx := contextkeys.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sharedViewerKey - общий посетитель для анонимных чтений без X-Viewer-ID.
const sharedViewerKey = "anon:shared"

// ViewerMiddleware определяет ключ посетителя: id пользователя или
// анонимный X-Viewer-ID. Чтение без заголовка обслуживает общий посетитель,
// изменяющему запросу без заголовка выдается новый id.
func ViewerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := contextkeys.SessionFromContext(r.Context())

		var key string
		if session.Authenticated && session.UserID() != "" {
			key = "user:" + session.UserID()
		} else if anonID, err := uuid.Parse(r.Header.Get(viewerHeader)); err == nil {
			w.Header().Set(viewerHeader, anonID.String())
			key = "anon:" + anonID.String()
		} else if isReadOnly(r.Method) {
			key = sharedViewerKey
		} else {
			anonID = uuid.New()
			w.Header().Set(viewerHeader, anonID.String())
			key = "anon:" + anonID.String()
		}

		viewer := domain.Viewer{Key: key, Session: session}
		logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"viewer_key": key})
		ctx := contextkeys.ContextWithLogger(r.Context(), logger)
		ctx = context.WithValue(ctx, viewerKey, viewer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func isReadOnly(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// viewerFromRequest возвращает посетителя, определенного ViewerMiddleware.
func viewerFromRequest(r *http.Request) domain.Viewer {
	if viewer, ok := r.Context().Value(viewerKey).(domain.Viewer); ok {
		return viewer
	}
	return domain.Viewer{Session: contextkeys.SessionFromContext(r.Context())}
}
