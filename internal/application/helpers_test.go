package application

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ahrav/go-allot/internal/domain"
	"github.com/ahrav/go-allot/internal/ports"
)

// mockMetrics records metric calls for assertions.
type mockMetrics struct {
	mu         sync.Mutex
	counters   map[string]float64
	labels     map[string][]map[string]string
	histograms map[string][]float64
	latencies  map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		counters:   make(map[string]float64),
		labels:     make(map[string][]map[string]string),
		histograms: make(map[string][]float64),
		latencies:  make(map[string]int),
	}
}

func (m *mockMetrics) RecordLatency(operation string, _ time.Duration, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies[operation]++
}

func (m *mockMetrics) RecordCounter(metric string, value float64, labels map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[metric] += value
	m.labels[metric] = append(m.labels[metric], labels)
}

func (m *mockMetrics) RecordGauge(string, float64, map[string]string) {}

func (m *mockMetrics) RecordHistogram(metric string, value float64, _ map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.histograms[metric] = append(m.histograms[metric], value)
}

// countWithLabel counts recorded calls of metric whose labels[key] == value.
func (m *mockMetrics) countWithLabel(metric, key, value string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.labels[metric] {
		if l[key] == value {
			n++
		}
	}
	return n
}

// flakyAllocator fails every call for which fail returns true and otherwise
// assigns agent i topic i and slot i.
type flakyAllocator struct {
	name  string
	calls int
	fail  func(call int) bool
}

func (f *flakyAllocator) Name() string { return f.name }

func (f *flakyAllocator) Allocate(s domain.Sizing, _ domain.Profile, _ *rand.Rand) (domain.Assignment, error) {
	call := f.calls
	f.calls++
	if f.fail != nil && f.fail(call) {
		return nil, domain.NewSizeError(domain.DimensionTopic, 0, s.Agents)
	}
	a := domain.NewAssignment(s.Agents)
	for i := range a {
		a[i] = domain.Allocation{Topic: i, Slot: i}
	}
	return a, nil
}

// memStore is an in-memory ports.VoteStore.
type memStore struct {
	mu       sync.Mutex
	courses  []domain.Course
	votes    map[string][]domain.GroupVotes
	saveErr  error
	nextID   int64
	resetErr error
}

var _ ports.VoteStore = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{votes: make(map[string][]domain.GroupVotes)}
}

func (m *memStore) find(name string) (domain.Course, bool) {
	for _, c := range m.courses {
		if c.Name == name {
			return c, true
		}
	}
	return domain.Course{}, false
}

func (m *memStore) CreateCourse(_ context.Context, c domain.Course) (domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.find(c.Name); ok {
		return domain.Course{}, ports.NewStoreError(c.Name, "CreateCourse", ports.ErrCourseExists)
	}
	m.nextID++
	c.ID = m.nextID
	m.courses = append(m.courses, c)
	m.votes[c.Name] = make([]domain.GroupVotes, c.Groups)
	for i := range m.votes[c.Name] {
		m.votes[c.Name][i] = domain.GroupVotes{Topics: make([]int, len(c.Topics)), Slots: make([]int, len(c.Slots))}
	}
	return c, nil
}

func (m *memStore) Course(_ context.Context, name string) (domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.find(name)
	if !ok {
		return domain.Course{}, ports.NewStoreError(name, "Course", &ports.CourseNotFoundError{Name: name})
	}
	return c, nil
}

func (m *memStore) ListCourses(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.courses))
	for i, c := range m.courses {
		names[i] = c.Name
	}
	return names, nil
}

func (m *memStore) SaveVotes(_ context.Context, course string, group int, votes domain.GroupVotes) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	stored, ok := m.votes[course]
	if !ok {
		return ports.NewStoreError(course, "SaveVotes", &ports.CourseNotFoundError{Name: course})
	}
	if group < 1 || group > len(stored) {
		return ports.NewStoreError(course, "SaveVotes", ports.ErrGroupNotFound)
	}
	stored[group-1] = domain.GroupVotes{
		Topics: append([]int(nil), votes.Topics...),
		Slots:  append([]int(nil), votes.Slots...),
	}
	return nil
}

func (m *memStore) Tally(_ context.Context, course string) (domain.Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.find(course)
	if !ok {
		return domain.Tally{}, ports.NewStoreError(course, "Tally", &ports.CourseNotFoundError{Name: course})
	}
	return domain.Tally{Course: c, Votes: append([]domain.GroupVotes(nil), m.votes[course]...)}, nil
}

func (m *memStore) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.resetErr != nil {
		return m.resetErr
	}
	m.courses = nil
	m.votes = make(map[string][]domain.GroupVotes)
	return nil
}

func (m *memStore) Close() error { return nil }

var errStoreDown = errors.New("store unavailable")

// threeByThree is a course with three groups, topics, and slots.
func threeByThree(name string) CourseSpec {
	return CourseSpec{
		Name:       name,
		TotalVotes: 100,
		Groups:     3,
		Topics: []TopicSpec{
			{Name: "Raft", Description: "consensus"},
			{Name: "CRDTs"},
			{Name: "Bloom filters"},
		},
		Slots: []SlotSpec{
			{Begin: "09:00", End: "09:30"},
			{Begin: "09:30", End: "10:00"},
			{Begin: "10:00", End: "10:30"},
		},
	}
}
