package dialogue

import (
	"context"
	"fmt"
	"sync"
)

// StateStore keeps one State per conversation.
type StateStore interface {
	// Load returns the stored state, or Start for an unknown conversation.
	Load(ctx context.Context, conversationID string) (State, error)
	Save(ctx context.Context, conversationID string, st State) error
}

// MemoryStore is a StateStore that forgets everything on exit.
type MemoryStore struct {
	mu     sync.Mutex
	states map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, conversationID string) (State, error) {
	m.mu.Lock()
	b := m.states[conversationID]
	m.mu.Unlock()
	return UnmarshalState(b)
}

// Save stores the encoded state so callers never share slices with it.
func (m *MemoryStore) Save(_ context.Context, conversationID string, st State) error {
	b, err := MarshalState(st)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.states[conversationID] = b
	m.mu.Unlock()
	return nil
}

// Repo is the byte-level persistence a RepoStore sits on;
// store.DialogueRepo satisfies it.
type Repo interface {
	Load(ctx context.Context, conversationID string) ([]byte, error)
	Save(ctx context.Context, conversationID string, state []byte) error
}

// RepoStore persists states through a Repo.
type RepoStore struct {
	repo Repo
}

// NewRepoStore wraps repo.
func NewRepoStore(repo Repo) *RepoStore {
	return &RepoStore{repo: repo}
}

func (r *RepoStore) Load(ctx context.Context, conversationID string) (State, error) {
	b, err := r.repo.Load(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load dialogue state: %w", err)
	}
	return UnmarshalState(b)
}

func (r *RepoStore) Save(ctx context.Context, conversationID string, st State) error {
	b, err := MarshalState(st)
	if err != nil {
		return err
	}
	if err := r.repo.Save(ctx, conversationID, b); err != nil {
		return fmt.Errorf("save dialogue state: %w", err)
	}
	return nil
}
