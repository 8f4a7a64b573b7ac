package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

type UserHandlerSuite struct {
	suite.Suite
	App *testApp
}

func (s *UserHandlerSuite) SetupTest() {
	s.App = newTestApp(s.T())
}

func TestUserHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserHandlerSuite))
}

func (s *UserHandlerSuite) signupAdmin() (int, string) {
	rr := s.App.request("POST", "/api/v1/users", gin.H{
		"name":            "Admin User",
		"email":           "admin@test.com",
		"age":             40,
		"password":        "secret123",
		"passwordConfirm": "secret123",
		"role":            "admin",
	}, "")

	Expect(rr.Code).To(Equal(http.StatusCreated))

	body := decodeBody(rr)
	user := body["data"].(map[string]any)["user"].(map[string]any)

	return int(user["id"].(float64)), body["token"].(string)
}

func (s *UserHandlerSuite) listUsers(token, queryString string) []any {
	rr := s.App.request("GET", "/api/v1/users"+queryString, nil, token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decodeBody(rr)

	return body["data"].(map[string]any)["users"].([]any)
}

func (s *UserHandlerSuite) TestListUsers() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)
	s.App.signup(s.T(), "John Doe", "john@test.com", "secret123", 20)

	users := s.listUsers(token, "")

	Expect(users).To(HaveLen(2))
}

func (s *UserHandlerSuite) TestListUsersAgeFilter() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)
	s.App.signup(s.T(), "John Doe", "john@test.com", "secret123", 19)

	users := s.listUsers(token, "?age[gte]=21")

	Expect(users).To(HaveLen(1))
	Expect(users[0].(map[string]any)["email"]).To(Equal("jane@test.com"))
}

func (s *UserHandlerSuite) TestListUsersFieldSelection() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	users := s.listUsers(token, "?fields=name,email")

	Expect(users).To(HaveLen(1))

	user := users[0].(map[string]any)
	Expect(user).To(HaveKey("id"))
	Expect(user["name"]).To(Equal("Jane Doe"))
	Expect(user["email"]).To(Equal("jane@test.com"))
	Expect(user).ToNot(HaveKey("age"))
	Expect(user).ToNot(HaveKey("role"))
	Expect(user).ToNot(HaveKey("type"))
}

func (s *UserHandlerSuite) TestListUsersPagination() {
	var token string

	for i := 1; i <= 5; i++ {
		_, t := s.App.signup(s.T(), fmt.Sprintf("User Number%d", i), fmt.Sprintf("u%d@test.com", i), "secret123", 20+i)
		token = t
	}

	users := s.listUsers(token, "?sort=age&page=2&limit=2")

	Expect(users).To(HaveLen(2))
	Expect(users[0].(map[string]any)["email"]).To(Equal("u3@test.com"))
	Expect(users[1].(map[string]any)["email"]).To(Equal("u4@test.com"))

	Expect(s.listUsers(token, "?page=9&limit=10")).To(BeEmpty())
}

func (s *UserHandlerSuite) TestSoftDeletedUsersNeverListed() {
	_, victim := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)
	_, token := s.App.signup(s.T(), "John Doe", "john@test.com", "secret123", 35)

	rr := s.App.request("DELETE", "/api/v1/users/deleteMe", nil, victim)
	Expect(rr.Code).To(Equal(http.StatusNoContent))

	users := s.listUsers(token, "")

	Expect(users).To(HaveLen(1))
	Expect(users[0].(map[string]any)["email"]).To(Equal("john@test.com"))
}

func (s *UserHandlerSuite) TestGetUserRequiresElevatedRole() {
	id, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	rr := s.App.request("GET", fmt.Sprintf("/api/v1/users/%d", id), nil, token)

	Expect(rr.Code).To(Equal(http.StatusForbidden))
	Expect(rr.Body.String()).To(ContainSubstring("You do not have permission to perform this action"))
}

func (s *UserHandlerSuite) TestGetUserAsAdmin() {
	id, _ := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)
	_, adminToken := s.signupAdmin()

	rr := s.App.request("GET", fmt.Sprintf("/api/v1/users/%d", id), nil, adminToken)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decodeBody(rr)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	Expect(user["email"]).To(Equal("jane@test.com"))
}

func (s *UserHandlerSuite) TestGetMeIncludesMyEvents() {
	id, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	create := s.App.request("POST", "/api/v1/events", gin.H{
		"name":         "Team Meetup",
		"startDate":    "2030-05-01T10:00:00Z",
		"participants": []int{id},
		"duration":     2,
		"location": gin.H{
			"type":        "Point",
			"coordinates": []float64{-46.633308, -23.55052},
		},
	}, token)
	Expect(create.Code).To(Equal(http.StatusCreated))

	rr := s.App.request("GET", "/api/v1/users/me", nil, token)
	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decodeBody(rr)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	events := user["myEvents"].([]any)

	Expect(events).To(HaveLen(1))
	Expect(events[0].(map[string]any)["name"]).To(Equal("Team Meetup"))
}

func (s *UserHandlerSuite) TestUpdateMe() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	rr := s.App.request("PATCH", "/api/v1/users/updateMe", gin.H{
		"name": "Jane Renamed",
	}, token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decodeBody(rr)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	Expect(user["name"]).To(Equal("Jane Renamed"))
	Expect(user["email"]).To(Equal("jane@test.com"))
}

func (s *UserHandlerSuite) TestUpdateMeRejectsPassword() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	rr := s.App.request("PATCH", "/api/v1/users/updateMe", gin.H{
		"password": "hijack123",
	}, token)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(rr.Body.String()).To(ContainSubstring("This route is not for password update"))
}

func (s *UserHandlerSuite) TestUpdateMeIgnoresRoleEscalation() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	rr := s.App.request("PATCH", "/api/v1/users/updateMe", gin.H{
		"name": "Jane Doe",
		"role": "admin",
	}, token)

	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decodeBody(rr)
	user := body["data"].(map[string]any)["user"].(map[string]any)
	Expect(user["role"]).To(Equal("user"))
}

func (s *UserHandlerSuite) TestDeleteMeInvalidatesAccount() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)

	rr := s.App.request("DELETE", "/api/v1/users/deleteMe", nil, token)
	Expect(rr.Code).To(Equal(http.StatusNoContent))

	login := s.App.request("POST", "/api/v1/users/login", gin.H{
		"email":    "jane@test.com",
		"password": "secret123",
	}, "")
	Expect(login.Code).To(Equal(http.StatusUnauthorized))
}

func (s *UserHandlerSuite) TestAggregate() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)
	s.App.signup(s.T(), "John Doe", "john@test.com", "secret123", 40)
	s.App.signup(s.T(), "Kid Adult", "kid@test.com", "secret123", 21)

	rr := s.App.request("GET", "/api/v1/users/aggregate", nil, token)
	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decodeBody(rr)
	aggregate := body["data"].(map[string]any)["aggregate"].(map[string]any)

	Expect(aggregate["totalUsers"]).To(BeNumerically("==", 2))
	Expect(aggregate["avgAge"]).To(BeNumerically("==", 35))
	Expect(aggregate["maxAge"]).To(BeNumerically("==", 40))
	Expect(aggregate["minAge"]).To(BeNumerically("==", 30))
}

func (s *UserHandlerSuite) TestDynamicQuery() {
	_, token := s.App.signup(s.T(), "Jane Doe", "jane@test.com", "secret123", 30)
	s.App.signup(s.T(), "John Doe", "john@test.com", "secret123", 19)

	rr := s.App.request("GET", "/api/v1/users/dynamic?age[gte]=21&fields=email", nil, token)
	Expect(rr.Code).To(Equal(http.StatusOK))

	body := decodeBody(rr)
	users := body["data"].(map[string]any)["users"].([]any)

	Expect(users).To(HaveLen(1))
	Expect(users[0].(map[string]any)["email"]).To(Equal("jane@test.com"))
}

func (s *UserHandlerSuite) TestNotFoundCatchAll() {
	rr := s.App.request("GET", "/api/v1/nothing-here", nil, "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(rr.Body.String()).To(ContainSubstring("Can't find /api/v1/nothing-here on this server!"))
}
