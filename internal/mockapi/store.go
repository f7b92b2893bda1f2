package mockapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pulseesg/pulse/internal/esg"
)

var (
	errUserExists      = errors.New("user already exists")
	errBadCredentials  = errors.New("invalid email or password")
	errCompanyExists   = errors.New("company already exists")
	errCompanyNotFound = errors.New("company not found")
)

// Roles assigned to demo users.
const (
	RoleAnalyst = "ANALYST"
	RoleAdmin   = "ADMIN"
)

type user struct {
	email string
	hash  []byte
	role  string
}

// analysis is one stored analyze call.
type analysis struct {
	id         int64
	companyID  int64
	assessment Assessment
	at         time.Time
}

// store keeps every demo entity in memory.
type store struct {
	mu        sync.RWMutex
	users     map[string]user
	companies map[int64]esg.Company
	analyses  []analysis
	nextID    int64
	cost      int
}

func newStore(bcryptCost int) *store {
	return &store{
		users:     make(map[string]user),
		companies: make(map[int64]esg.Company),
		cost:      bcryptCost,
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *store) addUser(email, password, role string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return errUserExists
	}
	s.users[email] = user{email: email, hash: hash, role: role}
	return nil
}

func (s *store) authenticate(email, password string) (user, error) {
	s.mu.RLock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return user{}, errBadCredentials
	}
	if bcrypt.CompareHashAndPassword(u.hash, []byte(password)) != nil {
		return user{}, errBadCredentials
	}
	return u, nil
}

func (s *store) listCompanies() []esg.Company {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]esg.Company, 0, len(s.companies))
	for _, c := range s.companies {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) company(id int64) (esg.Company, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.companies[id]
	return c, ok
}

func (s *store) addCompany(in esg.CompanyInput) (esg.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.companies {
		if strings.EqualFold(c.Name, in.Name) {
			return esg.Company{}, errCompanyExists
		}
	}
	c := esg.Company{ID: s.id(), Name: in.Name, Sector: in.Sector, Country: in.Country}
	s.companies[c.ID] = c
	return c, nil
}

// deleteCompany removes the company and its analyses.
func (s *store) deleteCompany(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.companies[id]; !ok {
		return errCompanyNotFound
	}
	delete(s.companies, id)
	kept := s.analyses[:0]
	for _, a := range s.analyses {
		if a.companyID != id {
			kept = append(kept, a)
		}
	}
	s.analyses = kept
	return nil
}

func (s *store) addAnalysis(companyID int64, a Assessment, at time.Time) analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := analysis{id: s.id(), companyID: companyID, assessment: a, at: at}
	s.analyses = append(s.analyses, rec)
	return rec
}

// history returns a company's analyses, newest first.
func (s *store) history(companyID int64) []analysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []analysis
	for _, a := range s.analyses {
		if a.companyID == companyID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at.After(out[j].at) })
	return out
}
