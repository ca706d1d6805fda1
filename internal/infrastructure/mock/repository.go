// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package mock provides in-memory implementations of the source directory
// and the subscriber list, used by the "mock" providers and by tests.
package mock

import (
	"fmt"
	"sync"

	"github.com/linuxfoundation/lfx-v2-mailing-list-sync/internal/domain/model"
)

var (
	globalMockRepo     *MockRepository
	globalMockRepoOnce = &sync.Once{}
)

// Operation names recorded in the call journal
const (
	OpListGroupMembers = "source.ListMembers"
	OpFindListByName   = "list.FindListByName"
	OpListMembers      = "list.ListMembers"
	OpBatchRemove      = "list.BatchRemove"
	OpBatchUpsert      = "list.BatchUpsert"
)

// Call is one journal entry
type Call struct {
	Op     string
	Target string
	Emails []model.MemberEmail
}

// MockRepository holds both sides of a sync in memory
type MockRepository struct {
	groups      map[string][]model.SourceMember                     // groupID -> members, in directory order
	lists       map[string]string                                   // list name -> list ID
	subscribers map[string]map[model.MemberEmail]model.SourceMember // list ID -> members
	errors      map[string]error                                    // operation -> simulated error
	calls       []Call
	nextListID  int
	mu          sync.RWMutex // Protect concurrent access to maps
}

// NewMockRepository returns the process wide repository, seeded with sample
// data the first time it is requested
func NewMockRepository() *MockRepository {
	globalMockRepoOnce.Do(func() {
		mock := NewEmptyMockRepository()

		mock.AddGroup("engineering@example.org",
			model.SourceMember{Email: "alice@example.org", FirstName: "Alice", LastName: "Liddell"},
			model.SourceMember{Email: "Bob@Example.org"},
			model.SourceMember{Email: "carol@example.org"},
		)

		listID := mock.AddList("Engineering Announcements")
		mock.AddSubscribers(listID, "bob@example.org", "mallory@example.org")

		globalMockRepo = mock
	})

	return globalMockRepo
}

// NewEmptyMockRepository returns an isolated repository with no data
func NewEmptyMockRepository() *MockRepository {
	return &MockRepository{
		groups:      make(map[string][]model.SourceMember),
		lists:       make(map[string]string),
		subscribers: make(map[string]map[model.MemberEmail]model.SourceMember),
		errors:      make(map[string]error),
	}
}

// AddGroup registers (or replaces) a group in the source directory
func (m *MockRepository) AddGroup(groupID string, members ...model.SourceMember) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.groups[groupID] = append([]model.SourceMember(nil), members...)
}

// AddList creates an empty subscriber list and returns its ID
func (m *MockRepository) AddList(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id, ok := m.lists[name]; ok {
		return id
	}

	m.nextListID++
	id := fmt.Sprintf("list-%d", m.nextListID)
	m.lists[name] = id
	m.subscribers[id] = make(map[model.MemberEmail]model.SourceMember)
	return id
}

// AddSubscribers puts emails on a list without recording a call
func (m *MockRepository) AddSubscribers(listID string, emails ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs, ok := m.subscribers[listID]
	if !ok {
		subs = make(map[model.MemberEmail]model.SourceMember)
		m.subscribers[listID] = subs
	}
	for _, email := range emails {
		subs[model.NormalizeEmail(email)] = model.SourceMember{Email: email}
	}
}

// Subscribers returns the normalized emails on a list, sorted
func (m *MockRepository) Subscribers(listID string) []model.MemberEmail {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := make(model.EmailSet, len(m.subscribers[listID]))
	for email := range m.subscribers[listID] {
		set[email] = struct{}{}
	}
	return set.Sorted()
}

// Subscriber returns the stored record for an email
func (m *MockRepository) Subscriber(listID, email string) (model.SourceMember, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	member, ok := m.subscribers[listID][model.NormalizeEmail(email)]
	return member, ok
}

// SetError makes every call of the given operation fail with err.
// A nil err clears the simulation.
func (m *MockRepository) SetError(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err == nil {
		delete(m.errors, op)
		return
	}
	m.errors[op] = err
}

// Calls returns a copy of the call journal
func (m *MockRepository) Calls() []Call {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]Call(nil), m.calls...)
}

// Ops returns the operation names of the journal, in call order
func (m *MockRepository) Ops() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ops := make([]string, len(m.calls))
	for i, c := range m.calls {
		ops[i] = c.Op
	}
	return ops
}

// ClearAll removes all data, errors and journal entries
func (m *MockRepository) ClearAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.groups = make(map[string][]model.SourceMember)
	m.lists = make(map[string]string)
	m.subscribers = make(map[string]map[model.MemberEmail]model.SourceMember)
	m.errors = make(map[string]error)
	m.calls = nil
	m.nextListID = 0
}

// record appends to the journal and returns the simulated error, if any.
// Callers hold the write lock.
func (m *MockRepository) record(op, target string, emails []model.MemberEmail) error {
	m.calls = append(m.calls, Call{
		Op:     op,
		Target: target,
		Emails: append([]model.MemberEmail(nil), emails...),
	})
	return m.errors[op]
}
