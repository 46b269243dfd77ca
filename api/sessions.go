package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/nexus/pkg/navigator"
)

// SessionResponse is the state of a navigation session after a transition.
// Node is the focused node with its numbered neighbors, absent when Idle.
type SessionResponse struct {
	ID      string                `json:"id"`
	Mode    string                `json:"mode"`
	Current string                `json:"current,omitempty"`
	History []string              `json:"history"`
	Node    *navigator.NodeDetail `json:"node,omitempty"`

	// Moved is set by back; false means the history was empty.
	Moved *bool `json:"moved,omitempty"`
}

func sessionResponse(id string, sess *navigator.Session) SessionResponse {
	history := sess.History()
	if history == nil {
		history = []string{}
	}
	return SessionResponse{
		ID:      id,
		Mode:    sess.Mode().String(),
		Current: sess.Current(),
		History: history,
		Node:    sess.Last(),
	}
}

// handleCreateSession starts an Idle navigation session.
func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	id := s.sessions.Create()

	var resp SessionResponse
	err := s.sessions.Do(id, func(sess *navigator.Session) error {
		resp = sessionResponse(id, sess)
		return nil
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// handleGetSession returns the session state without transitioning.
func (s *Server) handleGetSession(c *fiber.Ctx) error {
	return s.withSession(c, func(sess *navigator.Session) (*bool, error) {
		return nil, nil
	})
}

// handleSessionGet focuses a node by id or prefix.
func (s *Server) handleSessionGet(c *fiber.Ctx) error {
	id := c.Params("id")
	return s.withSession(c, func(sess *navigator.Session) (*bool, error) {
		_, err := sess.Get(id)
		return nil, err
	})
}

// handleSessionSelect focuses the n-th neighbor of the current node.
func (s *Server) handleSessionSelect(c *fiber.Ctx) error {
	n, err := c.ParamsInt("n")
	if err != nil {
		return badRequest(c, "neighbor choice must be a number")
	}
	return s.withSession(c, func(sess *navigator.Session) (*bool, error) {
		_, err := sess.Select(n)
		return nil, err
	})
}

// handleSessionBack returns to the previously focused node.
func (s *Server) handleSessionBack(c *fiber.Ctx) error {
	return s.withSession(c, func(sess *navigator.Session) (*bool, error) {
		_, moved, err := sess.Back()
		return &moved, err
	})
}

// handleSessionReset returns the session to Idle.
func (s *Server) handleSessionReset(c *fiber.Ctx) error {
	return s.withSession(c, func(sess *navigator.Session) (*bool, error) {
		sess.Reset()
		return nil, nil
	})
}

// handleDeleteSession drops a session.
func (s *Server) handleDeleteSession(c *fiber.Ctx) error {
	if !s.sessions.Delete(c.Params("sid")) {
		return s.writeError(c, navigator.ErrSessionNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// withSession runs a transition with exclusive access to the session named by
// the sid parameter and writes the resulting state.
func (s *Server) withSession(c *fiber.Ctx, fn func(*navigator.Session) (*bool, error)) error {
	id := c.Params("sid")

	var resp SessionResponse
	err := s.sessions.Do(id, func(sess *navigator.Session) error {
		moved, err := fn(sess)
		if err != nil {
			return err
		}
		resp = sessionResponse(id, sess)
		resp.Moved = moved
		return nil
	})
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(resp)
}
