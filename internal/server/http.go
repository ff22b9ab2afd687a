package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/karupanerura/lox-expression/internal/expression"
	"github.com/karupanerura/lox-expression/internal/lexer"
	"github.com/karupanerura/lox-expression/internal/printer"
	"github.com/karupanerura/lox-expression/internal/token"
	"github.com/karupanerura/lox-expression/internal/types"
)

const (
	evaluationsPath = "/v1/evaluations"
	expressionsPath = "/v1/expressions"

	maxRequestBodyBytes = 1 << 20
)

var evaluationPathRegexp = regexp.MustCompile(`^/v1/evaluations/([^/]+)$`)

type evaluationState string

const (
	stateSucceeded evaluationState = "SUCCEEDED"
	stateFailed    evaluationState = "FAILED"
)

type evaluation struct {
	Name       string          `json:"name"`
	Expression string          `json:"expression"`
	State      evaluationState `json:"state"`
	Type       string          `json:"type,omitempty"`
	Result     any             `json:"result,omitempty"`
	Rendered   string          `json:"rendered,omitempty"`
	Error      any             `json:"error,omitempty"`
	CreateTime time.Time       `json:"createTime"`
}

type expressionRequest struct {
	Expression string `json:"expression"`
}

type httpHandler struct {
	idBase      uint64
	evaluations sync.Map
	now         func() time.Time
}

func NewHTTPHandler() http.Handler {
	return &httpHandler{now: time.Now}
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == evaluationsPath:
		switch r.Method {
		case http.MethodGet:
			h.listEvaluations(w, r)
		case http.MethodPost:
			h.createEvaluation(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}

	case evaluationPathRegexp.MatchString(r.URL.Path):
		if r.Method != http.MethodGet {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		id := evaluationPathRegexp.FindStringSubmatch(r.URL.Path)[1]
		h.getEvaluation(w, r, id)

	case strings.HasPrefix(r.URL.Path, expressionsPath+":"):
		customMethod := strings.TrimPrefix(r.URL.Path, expressionsPath+":")
		if r.Method != http.MethodPost {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		switch customMethod {
		case "tokenize":
			h.tokenize(w, r)
		case "format":
			h.format(w, r)
		default:
			http.Error(w, "Not Found", http.StatusNotFound)
		}

	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

func (h *httpHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*expressionRequest, bool) {
	defer r.Body.Close()

	var req expressionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes)).Decode(&req); err != nil {
		log.Printf("failed to decode request body: %v", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

func (h *httpHandler) createEvaluation(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	id := fmt.Sprintf("%016x", atomic.AddUint64(&h.idBase, 1))
	ev := &evaluation{
		Name:       evaluationsPath + "/" + id,
		Expression: req.Expression,
		CreateTime: h.now().UTC(),
	}

	v, err := expression.NewEvaluator().Evaluate(req.Expression)
	if err == nil {
		ev.State = stateSucceeded
		ev.Type = v.Kind().String()
		ev.Result = types.Interface(v)
		ev.Rendered = v.String()
	} else {
		ev.State = stateFailed
		var exception types.Exception
		if errors.As(err, &exception) {
			ev.Error = exception.Exception()
		} else {
			log.Printf("failed to evaluate expression: %v", err)
			ev.Error = err.Error()
		}
	}

	h.evaluations.Store(id, ev)
	if err := resJSON(w, http.StatusOK, ev); err != nil {
		log.Printf("failed to write evaluation: %v", err)
	}
}

func (h *httpHandler) listEvaluations(w http.ResponseWriter, r *http.Request) {
	results := []*evaluation{}
	h.evaluations.Range(func(key, value any) bool {
		results = append(results, value.(*evaluation))
		return true
	})
	sort.Slice(results, func(i, j int) bool {
		if results[i].CreateTime.Equal(results[j].CreateTime) {
			return results[i].Name < results[j].Name
		}
		return results[i].CreateTime.Before(results[j].CreateTime)
	})

	if err := resJSON(w, http.StatusOK, map[string][]*evaluation{"evaluations": results}); err != nil {
		log.Printf("failed to write evaluations: %v", err)
	}
}

func (h *httpHandler) getEvaluation(w http.ResponseWriter, r *http.Request, id string) {
	ret, ok := h.evaluations.Load(id)
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if err := resJSON(w, http.StatusOK, ret.(*evaluation)); err != nil {
		log.Printf("failed to write evaluation: %v", err)
	}
}

func (h *httpHandler) tokenize(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	if err := resJSON(w, http.StatusOK, map[string][]token.Token{"tokens": lexer.Scan(req.Expression)}); err != nil {
		log.Printf("failed to write tokens: %v", err)
	}
}

func (h *httpHandler) format(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	expr, err := expression.Compile(req.Expression)
	if err != nil {
		var exception types.Exception
		if errors.As(err, &exception) {
			err = resJSON(w, http.StatusBadRequest, map[string]any{"error": exception.Exception()})
		} else {
			err = resJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		}
		if err != nil {
			log.Printf("failed to write format error: %v", err)
		}
		return
	}

	res := map[string]string{
		string(printer.InfixStyle):  printer.Infix(expr.Tree),
		string(printer.PrefixStyle): printer.Prefix(expr.Tree),
	}
	if err := resJSON(w, http.StatusOK, res); err != nil {
		log.Printf("failed to write formatted expression: %v", err)
	}
}

func resJSON(w http.ResponseWriter, status int, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json.MarshalIndent: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(b)+1))
	w.WriteHeader(status)

	if _, err = w.Write(b); err != nil {
		return fmt.Errorf("w.Write: %w", err)
	}
	if _, err = io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("io.WriteString: %w", err)
	}
	return nil
}
