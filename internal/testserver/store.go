// Package testserver implements an in-process double of the Bridge REST
// API. It implements exactly the observable contracts the integration
// fixtures rely on: session-token auth, role gates, activity-event
// materialization, and app-config CRUD with criteria selection.
package testserver

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kellyyangsong/BridgeIntegrationTests/pkg/bridge"
)

// account is the server-side account record. Events maps event id to
// timestamp; custom submissions upsert into it.
type account struct {
	ID         string
	Email      string
	Password   string
	Roles      []bridge.Role
	Consented  bool
	CreatedOn  bridge.DateTime
	DataGroups []string
	Events     map[string]bridge.DateTime
}

func (a *account) hasRole(role bridge.Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// store holds all mutable server state behind one lock. The fixtures run
// serially, so a coarse RWMutex is sufficient.
type store struct {
	mu         sync.RWMutex
	accounts   map[string]*account
	byEmail    map[string]string
	sessions   map[string]string // session token -> account id
	app        bridge.App
	study      bridge.Study
	appConfigs []*bridge.AppConfig
}

func newStore(app bridge.App, study bridge.Study) *store {
	return &store{
		accounts: make(map[string]*account),
		byEmail:  make(map[string]string),
		sessions: make(map[string]string),
		app:      app,
		study:    study,
	}
}

func (s *store) createAccount(signUp bridge.SignUp) (*account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[signUp.Email]; exists {
		return nil, bridge.NewError(bridge.KindConstraintViolation, "account already exists: "+signUp.Email)
	}
	acct := &account{
		ID:         uuid.NewString(),
		Email:      signUp.Email,
		Password:   signUp.Password,
		Roles:      signUp.Roles,
		Consented:  signUp.Consent,
		CreatedOn:  bridge.Now(),
		DataGroups: append([]string(nil), signUp.DataGroups...),
		Events:     make(map[string]bridge.DateTime),
	}
	materializeBuiltinEvents(acct)
	if acct.Consented {
		expandAutomaticEvents(acct, s.app.AutomaticCustomEvents)
	}
	s.accounts[acct.ID] = acct
	s.byEmail[acct.Email] = acct.ID
	return acct, nil
}

func (s *store) deleteAccount(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acct, ok := s.accounts[id]
	if !ok {
		return bridge.NewError(bridge.KindNotFound, "account not found")
	}
	delete(s.accounts, id)
	delete(s.byEmail, acct.Email)
	for token, accountID := range s.sessions {
		if accountID == id {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *store) authenticate(email, password string) (*account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, bridge.NewError(bridge.KindNotFound, "account not found")
	}
	acct := s.accounts[id]
	if acct.Password != password {
		return nil, bridge.NewError(bridge.KindNotFound, "account not found")
	}
	return acct, nil
}

func (s *store) addSession(token, accountID string) {
	s.mu.Lock()
	s.sessions[token] = accountID
	s.mu.Unlock()
}

func (s *store) removeSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// accountForSession resolves a session token. Tokens are JWTs, but a token
// must also still be present in the session table: signing out or deleting
// the account revokes it regardless of expiry.
func (s *store) accountForSession(token string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	acct, ok := s.accounts[id]
	return acct, ok
}

func (s *store) accountByID(id string) (*account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[id]
	return acct, ok
}

func (s *store) getApp() bridge.App {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyApp(s.app)
}

func (s *store) updateApp(update bridge.App) bridge.App {
	s.mu.Lock()
	defer s.mu.Unlock()

	update.Identifier = s.app.Identifier
	update.Version = s.app.Version + 1
	s.app = copyApp(update)
	return copyApp(s.app)
}

func (s *store) getStudy() bridge.Study {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.study
}

func copyApp(app bridge.App) bridge.App {
	out := app
	out.ActivityEventKeys = append([]string(nil), app.ActivityEventKeys...)
	out.AutomaticCustomEvents = make(map[string]string, len(app.AutomaticCustomEvents))
	for k, v := range app.AutomaticCustomEvents {
		out.AutomaticCustomEvents[k] = v
	}
	return out
}
