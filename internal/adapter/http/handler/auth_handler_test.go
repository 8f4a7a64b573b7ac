package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"eventsapp/internal/core/util"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerSuite struct {
	suite.Suite
	App *testApp
}

func (s *AuthHandlerSuite) SetupTest() {
	s.App = newTestApp(s.T())
}

func TestAuthHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) TestSignupReturnsTokenAndUser() {
	rr := s.App.request("POST", "/api/v1/users", gin.H{
		"name":            "Jane Doe",
		"email":           "jane@test.com",
		"age":             30,
		"password":        "secret123",
		"passwordConfirm": "secret123",
	}, "")

	Expect(rr.Code).To(Equal(http.StatusCreated))

	body := decodeBody(rr)
	Expect(body["status"]).To(Equal("success"))
	Expect(body["token"]).ToNot(BeEmpty())

	user := body["data"].(map[string]any)["user"].(map[string]any)
	Expect(user["email"]).To(Equal("jane@test.com"))
	Expect(user["type"]).To(Equal("ADULT"))

	// No password-shaped keys anywhere in the response.
	Expect(strings.ToLower(rr.Body.String())).ToNot(ContainSubstring("password"))
}

func (s *AuthHandlerSuite) TestSignupSetsJWTCookie() {
	rr := s.App.request("POST", "/api/v1/users", gin.H{
		"name":            "Jane Doe",
		"email":           "cookie@test.com",
		"age":             30,
		"password":        "secret123",
		"passwordConfirm": "secret123",
	}, "")

	cookies := rr.Result().Cookies()
	Expect(cookies).ToNot(BeEmpty())
	Expect(cookies[0].Name).To(Equal("jwt"))
	Expect(cookies[0].HttpOnly).To(BeTrue())
}

func (s *AuthHandlerSuite) TestSignupValidation() {
	rr := s.App.request("POST", "/api/v1/users", gin.H{
		"name":            "Jo",
		"email":           "not-an-email",
		"age":             15,
		"password":        "secret123",
		"passwordConfirm": "different",
	}, "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	body := decodeBody(rr)
	Expect(body["status"]).To(Equal("fail"))
	Expect(body["errors"]).ToNot(BeEmpty())
}

func (s *AuthHandlerSuite) TestSignupUnderage() {
	rr := s.App.request("POST", "/api/v1/users", gin.H{
		"name":            "Kid",
		"email":           "kid@test.com",
		"age":             15,
		"password":        "secret123",
		"passwordConfirm": "secret123",
	}, "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("You must be 18 and above to join this platform"))
}

func (s *AuthHandlerSuite) TestSignupDuplicateEmail() {
	s.App.signup(s.T(), "Jane Doe", "dup@test.com", "secret123", 30)

	rr := s.App.request("POST", "/api/v1/users", gin.H{
		"name":            "Jane Again",
		"email":           "dup@test.com",
		"age":             31,
		"password":        "secret123",
		"passwordConfirm": "secret123",
	}, "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("Duplicate field value"))
}

func (s *AuthHandlerSuite) TestLoginGenericUnauthorized() {
	s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	unknown := s.App.request("POST", "/api/v1/users/login", gin.H{
		"email":    "nobody@test.com",
		"password": "secret123",
	}, "")

	wrong := s.App.request("POST", "/api/v1/users/login", gin.H{
		"email":    "jane@test.com",
		"password": "wrongpass",
	}, "")

	Expect(unknown.Code).To(Equal(http.StatusUnauthorized))
	Expect(wrong.Code).To(Equal(http.StatusUnauthorized))
	Expect(unknown.Body.String()).To(Equal(wrong.Body.String()))
}

func (s *AuthHandlerSuite) TestProtectedRouteRequiresToken() {
	rr := s.App.request("GET", "/api/v1/users", nil, "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(ContainSubstring("You are not logged in!"))
}

func (s *AuthHandlerSuite) TestTokenInvalidAfterPasswordChange() {
	id, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	before := s.App.request("GET", "/api/v1/users/me", nil, token)
	Expect(before.Code).To(Equal(http.StatusOK))

	// Direct rotation dated after the token's issue time.
	hash, err := util.GenerateEncrypt("newsecret1")
	Expect(err).ToNot(HaveOccurred())
	Expect(s.App.Users.UpdatePassword(context.Background(), id, hash, time.Now().Add(2*time.Second))).To(Succeed())

	after := s.App.request("GET", "/api/v1/users/me", nil, token)
	Expect(after.Code).To(Equal(http.StatusUnauthorized))
	Expect(after.Body.String()).To(ContainSubstring("recently changed password"))
}

func (s *AuthHandlerSuite) TestUpdatePasswordIssuesFreshToken() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	rr := s.App.request("PATCH", "/api/v1/users/updatePassword", gin.H{
		"password":           "secret123",
		"newPassword":        "newsecret1",
		"newPasswordConfirm": "newsecret1",
	}, token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decodeBody(rr)
	Expect(body["token"]).ToNot(BeEmpty())

	login := s.App.request("POST", "/api/v1/users/login", gin.H{
		"email":    "jane@test.com",
		"password": "newsecret1",
	}, "")

	Expect(login.Code).To(Equal(http.StatusOK))
}

func (s *AuthHandlerSuite) TestInvalidToken() {
	rr := s.App.request("GET", "/api/v1/users", nil, "not.a.token")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(ContainSubstring("Invalid token"))
}
