package repository

import (
	"context"
	"database/sql"
	"net/url"
	"testing"

	"eventsapp/internal/core/domain"
	"eventsapp/internal/core/port"
	"eventsapp/internal/core/query"
	"eventsapp/pkg/test"
	"eventsapp/pkg/test/factory"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"
)

var userListFields = query.FieldSet{
	"name":      "name",
	"email":     "email",
	"age":       "age",
	"role":      "role",
	"createdAt": "created_at",
}

type UserRepositorySuite struct {
	suite.Suite
	Repo port.UserRepository
}

func (s *UserRepositorySuite) SetupTest() {
	db := test.InitTestDB(s.T())
	s.Repo = NewUserRepository(db)
}

func TestUserRepositorySuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositorySuite))
}

func (s *UserRepositorySuite) createUser(email string, age int) domain.User {
	user, err := s.Repo.Create(context.Background(), factory.NewUser(map[string]any{
		"Name":  "User " + email,
		"Email": email,
		"Age":   age,
	}))

	Expect(err).ToNot(HaveOccurred())

	return user
}

func (s *UserRepositorySuite) TestCreateAndGetByID() {
	created := s.createUser("ana@test.com", 25)

	found, err := s.Repo.GetByID(context.Background(), created.ID)

	Expect(err).ToNot(HaveOccurred())
	Expect(found.Email).To(Equal("ana@test.com"))
	Expect(found.Age).To(Equal(25))
	Expect(found.EncryptedPassword).To(BeEmpty())
}

func (s *UserRepositorySuite) TestCreateDuplicateEmail() {
	s.createUser("dup@test.com", 30)

	_, err := s.Repo.Create(context.Background(), factory.NewUser(map[string]any{
		"Name":  "Someone Else",
		"Email": "dup@test.com",
		"Age":   33,
	}))

	Expect(err).To(HaveOccurred())
}

func (s *UserRepositorySuite) TestSoftDeleteHidesUser() {
	created := s.createUser("gone@test.com", 40)

	Expect(s.Repo.SoftDelete(context.Background(), created.ID)).To(Succeed())

	_, err := s.Repo.GetByID(context.Background(), created.ID)
	Expect(err).To(MatchError(sql.ErrNoRows))

	users, err := s.Repo.Find(context.Background(), query.Parse(url.Values{}, userListFields))
	Expect(err).ToNot(HaveOccurred())
	Expect(users).To(BeEmpty())
}

func (s *UserRepositorySuite) TestDeleteByIDIsLogical() {
	created := s.createUser("flagged@test.com", 28)

	Expect(s.Repo.DeleteByID(context.Background(), created.ID)).To(Succeed())

	// The row still exists behind the flag: a second delete finds nothing
	// alive, which is exactly the soft-delete contract.
	err := s.Repo.DeleteByID(context.Background(), created.ID)
	Expect(err).To(MatchError(sql.ErrNoRows))
}

func (s *UserRepositorySuite) TestFindWithAgeFilter() {
	s.createUser("teen@test.com", 19)
	s.createUser("adult@test.com", 35)

	values := url.Values{}
	values.Set("age[gte]", "21")

	users, err := s.Repo.Find(context.Background(), query.Parse(values, userListFields))

	Expect(err).ToNot(HaveOccurred())
	Expect(users).To(HaveLen(1))
	Expect(users[0].Email).To(Equal("adult@test.com"))
}

func (s *UserRepositorySuite) TestFindPagination() {
	emails := []string{"a@t.com", "b@t.com", "c@t.com", "d@t.com", "e@t.com"}

	for i, email := range emails {
		s.createUser(email, 20+i)
	}

	values := url.Values{}
	values.Set("sort", "age")
	values.Set("page", "2")
	values.Set("limit", "2")

	users, err := s.Repo.Find(context.Background(), query.Parse(values, userListFields))

	Expect(err).ToNot(HaveOccurred())
	Expect(users).To(HaveLen(2))
	Expect(users[0].Email).To(Equal("c@t.com"))
	Expect(users[1].Email).To(Equal("d@t.com"))
}

func (s *UserRepositorySuite) TestFindPastTheEndPage() {
	s.createUser("only@test.com", 22)

	values := url.Values{}
	values.Set("page", "9")
	values.Set("limit", "10")

	users, err := s.Repo.Find(context.Background(), query.Parse(values, userListFields))

	Expect(err).ToNot(HaveOccurred())
	Expect(users).To(BeEmpty())
}

func (s *UserRepositorySuite) TestFindFieldSelection() {
	s.createUser("fields@test.com", 27)

	values := url.Values{}
	values.Set("fields", "name,email")

	users, err := s.Repo.Find(context.Background(), query.Parse(values, userListFields))

	Expect(err).ToNot(HaveOccurred())
	Expect(users).To(HaveLen(1))
	Expect(users[0].ID).ToNot(BeZero())
	Expect(users[0].Name).ToNot(BeEmpty())
	Expect(users[0].Email).To(Equal("fields@test.com"))
	Expect(users[0].Age).To(BeZero())
}

func (s *UserRepositorySuite) TestUpdateByID() {
	created := s.createUser("old@test.com", 26)

	updated, err := s.Repo.UpdateByID(context.Background(), created.ID, map[string]any{
		"name": "Renamed",
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.Name).To(Equal("Renamed"))
	Expect(updated.Email).To(Equal("old@test.com"))
}

func (s *UserRepositorySuite) TestUpdateMissingUser() {
	_, err := s.Repo.UpdateByID(context.Background(), 9999, map[string]any{"name": "Ghost"})

	Expect(err).To(MatchError(sql.ErrNoRows))
}

func (s *UserRepositorySuite) TestGetByEmailWithPassword() {
	s.createUser("login@test.com", 30)

	user, err := s.Repo.GetByEmailWithPassword(context.Background(), "login@test.com")

	Expect(err).ToNot(HaveOccurred())
	Expect(user.EncryptedPassword).ToNot(BeEmpty())
}

func (s *UserRepositorySuite) TestAggregateAges() {
	s.createUser("u21@test.com", 21)
	s.createUser("u30@test.com", 30)
	s.createUser("u40@test.com", 40)

	stats, err := s.Repo.AggregateAges(context.Background(), 21)

	Expect(err).ToNot(HaveOccurred())
	// strictly greater than the cutoff
	Expect(stats.TotalUsers).To(Equal(2))
	Expect(stats.AvgAge).To(BeNumerically("==", 35))
	Expect(stats.MaxAge).To(Equal(40))
	Expect(stats.MinAge).To(Equal(30))
}

func (s *UserRepositorySuite) TestAggregateAgesEmpty() {
	stats, err := s.Repo.AggregateAges(context.Background(), 21)

	Expect(err).ToNot(HaveOccurred())
	Expect(stats.TotalUsers).To(BeZero())
	Expect(stats.AvgAge).To(BeZero())
}
