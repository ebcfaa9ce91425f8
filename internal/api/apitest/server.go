// Package apitest runs an in-process fake of the kanban REST backend for tests.
//
// It keeps cards in memory, checks PINs against bcrypt hashes and records every request so
// tests can assert on the exact calls a client made.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"

	"kanban-cli/internal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type project struct {
	model.Project
	pinHash []byte
}

type Backend struct {
	mu       sync.Mutex
	projects []project
	cards    map[int64]model.Card
	nextID   int64
	requests []Request
	failNext int
}

func NewBackend() *Backend {
	return &Backend{cards: map[int64]model.Card{}, nextID: 1}
}

// AddProject registers a project with a 4-digit PIN.
func (b *Backend) AddProject(id model.ProjectID, name, pin string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.projects = append(b.projects, project{Project: model.Project{ID: id, Name: name}, pinHash: hash})
}

// AddCard seeds a card verbatim (column names are not normalised, so "in_progress" can be
// stored). The assigned id is returned.
func (b *Backend) AddCard(c model.Card) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == 0 {
		c.ID = b.nextID
	}
	if c.ID >= b.nextID {
		b.nextID = c.ID + 1
	}
	b.cards[c.ID] = c
	return c.ID
}

func (b *Backend) Card(id int64) (model.Card, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.cards[id]
	return c, ok
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) ResetRequests() {
	b.mu.Lock()
	b.requests = nil
	b.mu.Unlock()
}

// FailNext makes the next request fail with status.
func (b *Backend) FailNext(status int) {
	b.mu.Lock()
	b.failNext = status
	b.mu.Unlock()
}

// Start serves the backend under /api and closes it with the test.
func (b *Backend) Start(t testing.TB) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b.Router())
	t.Cleanup(srv.Close)
	return srv
}

// BaseURL is the client base for a server returned by Start.
func BaseURL(srv *httptest.Server) string { return srv.URL + "/api" }

func (b *Backend) Router() http.Handler {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), b.record)

	g := r.Group("/api")
	g.GET("/cards", b.listCards)
	g.POST("/cards", b.createCard)
	g.GET("/cards/:id", b.getCard)
	g.PATCH("/cards/:id", b.updateCard)
	g.PUT("/cards/:id", b.updateCard)
	g.DELETE("/cards/:id", b.deleteCard)
	g.POST("/cards/:id/archive", b.setColumn(model.ColumnArchive))
	g.POST("/cards/:id/restore", b.setColumn(model.ColumnDone))
	g.GET("/projects", b.listProjects)
	g.POST("/projects/verify", b.verifyProject)
	return r
}

func (b *Backend) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(bytes.NewReader(body))
	}
	b.mu.Lock()
	b.requests = append(b.requests, Request{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Body:   string(body),
	})
	status := b.failNext
	b.failNext = 0
	b.mu.Unlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"error": http.StatusText(status)})
		return
	}
	c.Next()
}

func (b *Backend) listCards(c *gin.Context) {
	pid := model.ProjectID(c.Query("project_id"))
	b.mu.Lock()
	out := make([]model.Card, 0, len(b.cards))
	for _, card := range b.cards {
		if pid != "" && card.ProjectID != pid {
			continue
		}
		out = append(out, card)
	}
	b.mu.Unlock()
	// Newest first, like the real backend's created_at desc ordering.
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (b *Backend) getCard(c *gin.Context) {
	id, ok := b.cardID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	card, found := b.cards[id]
	b.mu.Unlock()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (b *Backend) createCard(c *gin.Context) {
	var f model.CardFields
	if err := c.ShouldBindJSON(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	if f.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if f.ProjectID == "" {
		f.ProjectID = model.ProjectID(c.Query("project_id"))
	}
	b.mu.Lock()
	card := model.Card{
		ID:          b.nextID,
		Title:       f.Title,
		Description: f.Description,
		IssueType:   f.IssueType,
		Priority:    f.Priority,
		Assignee:    f.Assignee,
		Label:       f.Label,
		GitIssue:    f.GitIssue,
		Column:      f.Column,
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		ProjectID:   f.ProjectID,
	}
	b.nextID++
	b.cards[card.ID] = card
	b.mu.Unlock()
	c.JSON(http.StatusCreated, card)
}

func (b *Backend) updateCard(c *gin.Context) {
	id, ok := b.cardID(c)
	if !ok {
		return
	}
	var p model.CardPatch
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	b.mu.Lock()
	card, found := b.cards[id]
	if found {
		card = p.Apply(card)
		b.cards[id] = card
	}
	b.mu.Unlock()
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		return
	}
	c.JSON(http.StatusOK, card)
}

func (b *Backend) deleteCard(c *gin.Context) {
	id, ok := b.cardID(c)
	if !ok {
		return
	}
	b.mu.Lock()
	delete(b.cards, id)
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (b *Backend) setColumn(col model.Column) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := b.cardID(c)
		if !ok {
			return
		}
		b.mu.Lock()
		card, found := b.cards[id]
		if found {
			card.Column = col
			b.cards[id] = card
		}
		b.mu.Unlock()
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		c.JSON(http.StatusOK, card)
	}
}

func (b *Backend) listProjects(c *gin.Context) {
	b.mu.Lock()
	out := make([]model.Project, 0, len(b.projects))
	for _, p := range b.projects {
		out = append(out, p.Project)
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) verifyProject(c *gin.Context) {
	var req struct {
		ProjectID model.ProjectID `json:"project_id"`
		PIN       string          `json:"pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}
	b.mu.Lock()
	var match *project
	for i := range b.projects {
		if b.projects[i].ID == req.ProjectID {
			match = &b.projects[i]
			break
		}
	}
	b.mu.Unlock()
	if match == nil || bcrypt.CompareHashAndPassword(match.pinHash, []byte(req.PIN)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid project or pin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": match.Project})
}

func (b *Backend) cardID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card id"})
		return 0, false
	}
	return id, true
}

// DecodeBody unmarshals a recorded request body.
func DecodeBody(r Request) map[string]any {
	var m map[string]any
	_ = json.Unmarshal([]byte(r.Body), &m)
	return m
}
