// Package gate resolves which project the client works in: a stored session project, or a project
// picked from the list and unlocked with its 4-digit PIN.
//
// The PIN is a soft UX gate. It is only ever sent in the verify request and never stored.
package gate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"kanban-cli/internal/api"
	"kanban-cli/internal/model"
	"kanban-cli/internal/session"

	"github.com/charmbracelet/log"
)

var (
	ErrInvalidPIN  = errors.New("PIN must be exactly 4 digits")
	ErrPINMismatch = errors.New("PIN mismatch")
	ErrNoProject   = errors.New("no project selected")
)

var pinRe = regexp.MustCompile(`^\d{4}$`)

type ProjectRepository interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
	VerifyProject(ctx context.Context, projectID model.ProjectID, pin string) (model.Project, error)
}

// SessionStore is the slice of session.Scope the gate needs.
type SessionStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, key string) error
}

type Gate struct {
	repo    ProjectRepository
	session SessionStore
	log     *log.Logger
}

// New builds a gate. A nil session keeps nothing between runs.
func New(repo ProjectRepository, sess SessionStore, logger *log.Logger) *Gate {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Gate{repo: repo, session: sess, log: logger}
}

// Resume returns the project stored in the session, if any. It is trusted without
// re-verification.
func (g *Gate) Resume(ctx context.Context) (model.Project, bool, error) {
	if g.session == nil {
		return model.Project{}, false, nil
	}
	var p model.Project
	ok, err := g.session.GetJSON(ctx, session.KeyCurrentProject, &p)
	if err != nil {
		return model.Project{}, false, fmt.Errorf("resume session: %w", err)
	}
	if !ok || p.ID == "" {
		return model.Project{}, false, nil
	}
	return p, true, nil
}

func (g *Gate) Projects(ctx context.Context) ([]model.Project, error) {
	ps, err := g.repo.ListProjects(ctx)
	if err != nil {
		g.log.Error("list projects", "err", err)
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return ps, nil
}

// ValidatePIN is the local format check run before any request.
func ValidatePIN(pin string) error {
	if !pinRe.MatchString(pin) {
		return ErrInvalidPIN
	}
	return nil
}

// Verify checks the PIN with the backend and stores the project on success. Any non-OK answer is
// reported as ErrPINMismatch without saying which part was wrong.
func (g *Gate) Verify(ctx context.Context, projectID model.ProjectID, pin string) (model.Project, error) {
	if strings.TrimSpace(string(projectID)) == "" {
		return model.Project{}, ErrNoProject
	}
	if err := ValidatePIN(pin); err != nil {
		return model.Project{}, err
	}
	p, err := g.repo.VerifyProject(ctx, projectID, pin)
	if err != nil {
		var ae *api.Error
		if errors.As(err, &ae) {
			g.log.Warn("project verify rejected", "project", projectID, "status", ae.Status)
			return model.Project{}, ErrPINMismatch
		}
		g.log.Error("project verify", "project", projectID, "err", err)
		return model.Project{}, fmt.Errorf("verify project: %w", err)
	}
	if p.ID == "" {
		p.ID = projectID
	}
	if g.session != nil {
		if err := g.session.SetJSON(ctx, session.KeyCurrentProject, p); err != nil {
			return model.Project{}, fmt.Errorf("store session project: %w", err)
		}
	}
	g.log.Info("project unlocked", "project", p.ID)
	return p, nil
}

// Switch forgets the stored project and returns a fresh project list. The previous project is
// not restored if the caller abandons the switch.
func (g *Gate) Switch(ctx context.Context) ([]model.Project, error) {
	if g.session != nil {
		if err := g.session.Delete(ctx, session.KeyCurrentProject); err != nil {
			return nil, fmt.Errorf("clear session project: %w", err)
		}
	}
	return g.Projects(ctx)
}
