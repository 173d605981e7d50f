package devserver

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/roster/internal/student"
)

// ErrNotFound is returned when no student has the requested id.
var ErrNotFound = errors.New("student not found")

// Store is the persistence behind the dev server.
type Store interface {
	List() []student.Record
	Get(id string) (student.Record, error)
	Create(d student.Draft) student.Record
	Update(id string, d student.Draft) (student.Record, error)
	Delete(id string) error
}

// MemoryStore keeps students in insertion order. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	records map[string]student.Record
	newID   func() string
}

// NewMemoryStore returns a store holding seed. Seed records without an id get one.
func NewMemoryStore(seed ...student.Record) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]student.Record),
		newID:   uuid.NewString,
	}
	for _, r := range seed {
		if r.ID == "" {
			r.ID = s.newID()
		}
		s.order = append(s.order, r.ID)
		s.records[r.ID] = r
	}
	return s
}

func (s *MemoryStore) List() []student.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]student.Record, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

func (s *MemoryStore) Get(id string) (student.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return student.Record{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) Create(d student.Draft) student.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := student.Record{ID: s.newID(), Name: d.Name, Major: d.Major, EnrollmentYear: d.EnrollmentYear}
	s.order = append(s.order, r.ID)
	s.records[r.ID] = r
	return r
}

func (s *MemoryStore) Update(id string, d student.Draft) (student.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return student.Record{}, ErrNotFound
	}
	r := student.Record{ID: id, Name: d.Name, Major: d.Major, EnrollmentYear: d.EnrollmentYear}
	s.records[id] = r
	return r, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	for i, candidate := range s.order {
		if candidate == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// DemoStudents is the sample roster loaded by the devserver --seed flag.
func DemoStudents() []student.Record {
	return []student.Record{
		{Name: "Ada Lovelace", Major: "Mathematics", EnrollmentYear: 2021},
		{Name: "Alan Turing", Major: "Computer Science", EnrollmentYear: 2020},
		{Name: "Grace Hopper", Major: "Computer Science", EnrollmentYear: 2022},
		{Name: "Katherine Johnson", Major: "Physics", EnrollmentYear: 2019},
		{Name: "Claude Shannon", Major: "Electrical Engineering", EnrollmentYear: 2023},
		{Name: "Barbara Liskov", Major: "Computer Science", EnrollmentYear: 2021},
		{Name: "Edsger Dijkstra", Major: "Mathematics", EnrollmentYear: 2018},
	}
}
