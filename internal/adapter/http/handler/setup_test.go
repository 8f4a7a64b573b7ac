package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eventsapp/internal/adapter/database/sqlite/repository"
	"eventsapp/internal/adapter/http/handler"
	"eventsapp/internal/adapter/http/routes"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/service"
	"eventsapp/pkg/auth"
	"eventsapp/pkg/test"

	"github.com/gin-gonic/gin"
)

type testApp struct {
	Router *gin.Engine
	Users  port.UserRepository
	Events port.EventRepository
	Tokens *auth.TokenManager
}

func newTestApp(t *testing.T) *testApp {
	gin.SetMode(gin.TestMode)

	db := test.InitTestDB(t)

	users := repository.NewUserRepository(db)
	events := repository.NewEventRepository(db)

	tokens := auth.NewTokenManager("test-secret", time.Hour)

	authSvc := service.NewAuthService(users)
	userSvc := service.NewUserService(users, events)
	eventSvc := service.NewEventService(events)

	router := routes.SetupRouterForTests(routes.HandlersConfig{
		AuthHandler:  handler.NewAuthHandler(authSvc, tokens, 90),
		UserHandler:  handler.NewUserHandler(userSvc, users),
		EventHandler: handler.NewEventHandler(eventSvc, events),
		Tokens:       tokens,
		Users:        users,
	})

	return &testApp{
		Router: router,
		Users:  users,
		Events: events,
		Tokens: tokens,
	}
}

func (a *testApp) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader

	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)

	return rr
}

func decodeBody(rr *httptest.ResponseRecorder) gin.H {
	data := gin.H{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	return data
}

// signup registers a user through the API and returns its id and token.
func (a *testApp) signup(t *testing.T, name, email, password string, age int) (int, string) {
	t.Helper()

	rr := a.request("POST", "/api/v1/users", gin.H{
		"name":            name,
		"email":           email,
		"age":             age,
		"password":        password,
		"passwordConfirm": password,
	}, "")

	if rr.Code != http.StatusCreated {
		t.Fatalf("signup failed: %d %s", rr.Code, rr.Body.String())
	}

	body := decodeBody(rr)
	token := body["token"].(string)
	user := body["data"].(map[string]any)["user"].(map[string]any)

	return int(user["id"].(float64)), token
}
