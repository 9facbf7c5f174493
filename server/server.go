// Package server exposes the docblock parser and linter over HTTP, with a websocket
// endpoint for editors that re-parse on every change.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	docblock "github.com/dpotapov/go-docblock"
	"github.com/dpotapov/go-docblock/lint"
	"github.com/dpotapov/go-docblock/render"
)

// maxBodySize caps the size of a docblock accepted over HTTP.
const maxBodySize = 1 << 20

// wsUpgrader is a Gorilla WebSocket instance, used to respond HTTP requests with WebSocket.
var wsUpgrader = websocket.Upgrader{}

// errBadRequest marks errors caused by the client.
var errBadRequest = errors.New("bad request")

// Handler serves the parser and the linter over HTTP. The zero value is ready to use with
// the default grammar and rule set.
type Handler struct {
	// Grammar describes the tags with a type or an argument. docblock.DefaultGrammar is
	// used when nil.
	Grammar docblock.Grammar

	// Rules are checked by the /lint endpoint. lint.DefaultRules is used when nil.
	Rules []lint.Rule

	// OnError is a callback that is called when an error occurs while serving a request.
	OnError func(*http.Request, error)

	// Logger configures logging for internal events.
	Logger *slog.Logger

	// init is used to initialize the handler only once.
	init sync.Once

	// logger is a private logger instance that is used to log internal events.
	logger *slog.Logger

	// linter is compiled from Rules on first use; linterErr is the compile error, if any.
	linter    *lint.Linter
	linterErr error
}

// Message is a websocket request: a docblock and the coordinates it starts at.
type Message struct {
	Text   string `json:"text"`
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
}

// LintResponse is the body of a /lint response.
type LintResponse struct {
	Violations []lint.Violation `json:"violations"`
}

// ServeHTTP implements the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.init.Do(func() {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
		if h.Logger != nil {
			h.logger = h.Logger
		}

		rules := h.Rules
		if rules == nil {
			rules = lint.DefaultRules()
		}
		h.linter, h.linterErr = lint.New(rules)
		if h.linterErr != nil {
			h.logger.Error("Compile lint rules", "error", h.linterErr)
		}
	})

	if err := h.handleRequest(w, r); err != nil {
		if errors.Is(err, errBadRequest) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		} else {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		h.logger.Error("Serve HTTP request", "url", r.URL.Redacted(), "error", err)

		if h.OnError != nil {
			h.OnError(r, err)
		}
	}
}

func (h *Handler) handleRequest(w http.ResponseWriter, r *http.Request) error {
	switch r.URL.Path {
	case "/parse":
		if r.Method == http.MethodGet && websocket.IsWebSocketUpgrade(r) {
			return h.serveLive(w, r)
		}
		if r.Method != http.MethodPost {
			return methodNotAllowed(w, http.MethodPost)
		}
		return h.serveParse(w, r)
	case "/lint":
		if r.Method != http.MethodPost {
			return methodNotAllowed(w, http.MethodPost)
		}
		return h.serveLint(w, r)
	default:
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		return nil
	}
}

func (h *Handler) serveParse(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	format := render.JSON
	if s := q.Get("format"); s != "" {
		f, err := render.ParseFormat(s)
		if err != nil {
			return fmt.Errorf("%w: %w", errBadRequest, err)
		}
		format = f
	}

	line, err := intParam(q.Get("line"))
	if err != nil {
		return fmt.Errorf("%w: line: %w", errBadRequest, err)
	}
	offset, err := intParam(q.Get("offset"))
	if err != nil {
		return fmt.Errorf("%w: offset: %w", errBadRequest, err)
	}

	src, err := readBody(w, r)
	if err != nil {
		return err
	}

	doc := docblock.Parse(src, &docblock.Options{Line: line, Offset: offset, Grammar: h.Grammar})

	w.Header().Set("Content-Type", render.ContentType(format))
	if err := render.Write(w, format, doc); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

func (h *Handler) serveLint(w http.ResponseWriter, r *http.Request) error {
	if h.linterErr != nil {
		return fmt.Errorf("lint rules: %w", h.linterErr)
	}

	src, err := readBody(w, r)
	if err != nil {
		return err
	}

	doc := docblock.Parse(src, &docblock.Options{Grammar: h.Grammar})
	resp := LintResponse{Violations: h.linter.Check(doc)}
	if resp.Violations == nil {
		resp.Violations = []lint.Violation{}
	}

	w.Header().Set("Content-Type", render.ContentType(render.JSON))
	return json.NewEncoder(w).Encode(resp)
}

// serveLive parses every websocket message and replies with the JSON document. The
// session ends when the client closes the connection.
func (h *Handler) serveLive(w http.ResponseWriter, r *http.Request) error {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client
		h.logger.Debug("Websocket upgrade", "error", err)
		return nil
	}
	defer ws.Close()

	logger := h.logger.With("session", uuid.NewString())
	logger.Debug("Websocket session started")

	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Websocket session closed")
				return nil
			}
			logger.Error("Read websocket message", "error", err)
			return nil
		}

		doc := docblock.Parse(msg.Text, &docblock.Options{Line: msg.Line, Offset: msg.Offset, Grammar: h.Grammar})
		if err := ws.WriteJSON(doc); err != nil {
			logger.Error("Write websocket message", "error", err)
			return nil
		}
		logger.Debug("Parsed docblock", "bytes", len(msg.Text), "tags", len(doc.Tags))
	}
}

func readBody(w http.ResponseWriter, r *http.Request) (string, error) {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return "", fmt.Errorf("%w: %w", errBadRequest, err)
		}
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(b), nil
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func methodNotAllowed(w http.ResponseWriter, allow string) error {
	w.Header().Set("Allow", allow)
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	return nil
}
