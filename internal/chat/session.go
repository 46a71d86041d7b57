package chat

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// DefaultInstruction is configured once per session, matching the on-site
// assistant persona.
const DefaultInstruction = "Você é um assistente especialista em filmes e séries da plataforma 'RedFlix'. " +
	"Seu tom é divertido, casual e apaixonado por cinema. Ajude os usuários a escolherem o que assistir, " +
	"dê curiosidades sobre filmes e explique finais complexos. Você também cobre esportes como Futebol se perguntarem."

// ErrSessionNotFound is returned for unknown session IDs.
var ErrSessionNotFound = fmt.Errorf("chat session not found")

// Generator produces a reply for a conversation. *Client implements it.
type Generator interface {
	Generate(ctx context.Context, instruction string, history []Message) (string, error)
}

type session struct {
	instruction string
	history     []Message
}

// Manager holds chat sessions for the lifetime of the process.
type Manager struct {
	mu        sync.Mutex
	generator Generator
	sessions  map[string]*session
}

// NewManager creates a session manager around the given generator.
func NewManager(g Generator) *Manager {
	return &Manager{generator: g, sessions: make(map[string]*session)}
}

// NewSession creates a session with the given system instruction (the
// default persona when empty) and returns its ID.
func (m *Manager) NewSession(instruction string) string {
	if instruction == "" {
		instruction = DefaultInstruction
	}
	id := uuid.NewString()
	m.mu.Lock()
	m.sessions[id] = &session{instruction: instruction}
	m.mu.Unlock()
	return id
}

// SendMessage appends the user's text to the session history, asks the
// model, records the reply, and returns it. A failed generation leaves the
// history without the failed turn so the user can retry.
func (m *Manager) SendMessage(ctx context.Context, sessionID, text string) (string, error) {
	m.mu.Lock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		m.mu.Unlock()
		return "", ErrSessionNotFound
	}
	history := append(append([]Message(nil), sess.history...), Message{Role: "user", Text: text})
	instruction := sess.instruction
	m.mu.Unlock()

	reply, err := m.generator.Generate(ctx, instruction, history)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	sess.history = append(history, Message{Role: "model", Text: reply})
	m.mu.Unlock()
	return reply, nil
}

// History returns a copy of the session's conversation so far.
func (m *Manager) History(sessionID string) ([]Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return append([]Message(nil), sess.history...), nil
}
