package service

import (
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// maxURLBytes bounds the request body; it only ever carries one URL.
const maxURLBytes = 8 << 10

// failureBody is the single opaque response for every internal error.
// Callers get no error detail across the request boundary.
const failureBody = "cannot get prediction"

// Server is the HTTP surface: the request body is one image URL as
// plain UTF-8 text, the response body is the predicted label.
type Server struct {
	predictor *Predictor
	log       *zap.Logger
}

func NewServer(p *Predictor, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{predictor: p, log: log}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxURLBytes))
	if err != nil {
		s.fail(w, "", err)
		return
	}

	url := strings.TrimSpace(string(body))
	if url == "" {
		s.fail(w, url, nil)
		return
	}

	label, err := s.predictor.Predict(r.Context(), url)
	if err != nil {
		s.fail(w, url, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, label)
}

// fail logs the typed error internally and answers with the opaque body.
func (s *Server) fail(w http.ResponseWriter, url string, err error) {
	s.log.Error("prediction failed",
		zap.String("url", url),
		zap.Error(err))
	http.Error(w, failureBody, http.StatusInternalServerError)
}
