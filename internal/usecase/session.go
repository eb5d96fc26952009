package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// State is the lifecycle state of one question-answering session.
type State string

const (
	StateEmpty    State = "empty"
	StateIndexing State = "indexing"
	StateReady    State = "ready"
	StateQuerying State = "querying"
)

// ErrNoIndex is returned when a question arrives before an index exists.
var ErrNoIndex = errors.New("no index built yet")

// ErrBusy is returned when an operation arrives while another is running.
var ErrBusy = errors.New("session is busy")

// Session owns one user's pipeline state: the current index, the last
// answer, and the last error. Sessions are independent; nothing here is
// process-wide, so multiple sessions can run against isolated indexes.
type Session struct {
	id          string
	builder     *Builder
	retriever   *Retriever
	synthesizer *Synthesizer

	mu         sync.Mutex
	state      State
	index      port.VectorIndex
	lastAnswer *domain.Answer
	lastErr    error
}

func NewSession(builder *Builder, retriever *Retriever, synthesizer *Synthesizer) *Session {
	return &Session{
		id:          uuid.NewString(),
		builder:     builder,
		retriever:   retriever,
		synthesizer: synthesizer,
		state:       StateEmpty,
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastAnswer returns the most recent successful answer, if any.
func (s *Session) LastAnswer() *domain.Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAnswer
}

// LastErr returns the most recent user-visible error, if any.
func (s *Session) LastErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Reindex discards any prior index and rebuilds from folderID. The new
// index is built aside and swapped in on success, so a concurrent reader
// never observes a partially built index; on failure the session is Empty.
func (s *Session) Reindex(ctx context.Context, folderID string, progress ProgressFunc) error {
	if strings.TrimSpace(folderID) == "" {
		return fmt.Errorf("folder ID is empty")
	}

	s.mu.Lock()
	if s.state == StateIndexing || s.state == StateQuerying {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = StateIndexing
	s.index = nil
	s.lastAnswer = nil
	s.lastErr = nil
	s.mu.Unlock()

	idx, err := s.builder.Build(ctx, folderID, progress)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.state = StateEmpty
		s.lastErr = err
		return err
	}
	s.index = idx
	s.state = StateReady
	return nil
}

// Ask answers a question against the current index. Retrieval and
// generation failures leave the session Ready for further questions or a
// rebuild; they never tear the session down.
func (s *Session) Ask(ctx context.Context, question string) (domain.Answer, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Answer{}, fmt.Errorf("question is empty")
	}

	s.mu.Lock()
	if s.state == StateIndexing || s.state == StateQuerying {
		s.mu.Unlock()
		return domain.Answer{}, ErrBusy
	}
	if s.index == nil {
		s.mu.Unlock()
		return domain.Answer{}, ErrNoIndex
	}
	idx := s.index
	s.state = StateQuerying
	s.mu.Unlock()

	answer, err := s.ask(ctx, idx, question)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateReady
	if err != nil {
		s.lastErr = err
		return domain.Answer{}, err
	}
	s.lastAnswer = &answer
	s.lastErr = nil
	return answer, nil
}

func (s *Session) ask(ctx context.Context, idx port.VectorIndex, question string) (domain.Answer, error) {
	fragments, err := s.retriever.Retrieve(ctx, idx, question, 0)
	if err != nil {
		return domain.Answer{}, err
	}
	return s.synthesizer.Answer(ctx, question, fragments)
}
