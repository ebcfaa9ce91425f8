package cli

import (
	"errors"
	"fmt"

	"kanban-cli/internal/api"
	"kanban-cli/internal/gate"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type noProjectError struct{}

func (noProjectError) Error() string {
	return "no project selected; run `kanban projects use <project-id> --pin <pin>`"
}

func (noProjectError) Unwrap() error { return gate.ErrNoProject }

type confirmRequiredError struct {
	action string
	id     int64
}

func (e confirmRequiredError) Error() string {
	return fmt.Sprintf("refusing to %s card %d without --yes", e.action, e.id)
}

// cardErr turns a backend 404 into a plain "card not found".
func cardErr(id int64, err error) error {
	if errors.Is(err, api.ErrNotFound) {
		return errNotFound("card", fmt.Sprint(id))
	}
	return err
}
