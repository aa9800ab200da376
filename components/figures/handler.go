package figures

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-chartembed/pkg/component"
	"github.com/goliatone/go-chartembed/pkg/document"
	"github.com/goliatone/go-chartembed/pkg/page"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type tagResponse struct {
	ID   string        `json:"id"`
	Data component.Tag `json:"data"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds the handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	s := &server{opts: opts}

	r := chi.NewRouter()
	r.Use(s.allowRead, middleware.GetHead)
	if opts.Guard != nil {
		r.Use(s.guard)
	}
	r.Get("/", s.servePage)
	r.Get("/{id}", s.serveFragment)
	r.Get("/{id}/tag", s.serveTag)
	return r
}

type server struct {
	opts Options
}

func (s *server) allowRead(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.opts.Guard(r); err != nil {
			var httpErr HTTPError
			if !errors.As(err, &httpErr) {
				err = StatusError{Code: http.StatusForbidden, Err: err}
			}
			s.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *server) load(r *http.Request) (*document.Document, error) {
	if s.opts.Loader == nil {
		return nil, StatusError{Code: http.StatusServiceUnavailable, Err: errors.New("figures: no document configured")}
	}
	doc, err := s.opts.Loader(r.Context())
	if err != nil {
		return nil, StatusError{Code: http.StatusInternalServerError, Err: fmt.Errorf("figures: load document: %w", err)}
	}
	if doc == nil {
		return nil, StatusError{Code: http.StatusServiceUnavailable, Err: errors.New("figures: no document configured")}
	}
	return doc, nil
}

func (s *server) renderer(doc *document.Document) (*page.Renderer, string, error) {
	if s.opts.Page != nil {
		return s.opts.Page, doc.Theme, nil
	}
	return page.ForManifest(doc.Manifest())
}

func (s *server) servePage(w http.ResponseWriter, r *http.Request) {
	doc, err := s.load(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	components, err := doc.Components(s.opts.FigureOptions...)
	if err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	renderer, themeName, err := s.renderer(doc)
	if err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	req := page.Request{
		Title:      doc.Title,
		Theme:      themeName,
		Components: components,
	}
	if s.opts.Page != nil {
		req.Variant = s.opts.Variant
	}
	out, err := renderer.Render(r.Context(), req)
	if err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	writeBody(w, r, "text/html; charset=utf-8", out)
}

func (s *server) figureTag(r *http.Request) (string, component.Tag, error) {
	doc, err := s.load(r)
	if err != nil {
		return "", component.Tag{}, err
	}
	id := chi.URLParam(r, "id")
	spec, ok := doc.Figure(id)
	if !ok {
		return id, component.Tag{}, StatusError{Code: http.StatusNotFound, Err: fmt.Errorf("figures: unknown figure %q", id)}
	}
	fig, err := document.Component(spec, s.opts.FigureOptions...)
	if err != nil {
		return id, component.Tag{}, StatusError{Code: http.StatusInternalServerError, Err: err}
	}
	tag, err := fig.Render(r.Context())
	if err != nil {
		return id, component.Tag{}, StatusError{Code: http.StatusInternalServerError, Err: fmt.Errorf("figures: render %q: %w", id, err)}
	}
	return id, tag, nil
}

func (s *server) serveFragment(w http.ResponseWriter, r *http.Request) {
	_, tag, err := s.figureTag(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	markup, err := tag.HTML()
	if err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	writeBody(w, r, "text/html; charset=utf-8", []byte(markup))
}

func (s *server) serveTag(w http.ResponseWriter, r *http.Request) {
	id, tag, err := s.figureTag(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	payload, err := json.Marshal(tagResponse{ID: id, Data: tag})
	if err != nil {
		s.writeError(w, r, StatusError{Code: http.StatusInternalServerError, Err: err})
		return
	}
	writeBody(w, r, "application/json; charset=utf-8", append(payload, '\n'))
}

// writeError replies with the status carried by err. Client errors echo the
// message; server errors only expose the status text.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	if s.opts.Logger != nil {
		s.opts.Logger.Error("figures request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", code,
			"error", err,
		)
	}
	msg := http.StatusText(code)
	if code < http.StatusInternalServerError {
		msg = err.Error()
	}
	http.Error(w, msg, code)
}

func writeBody(w http.ResponseWriter, r *http.Request, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}
