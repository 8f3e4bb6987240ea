package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/phyten/jaspace/internal/detect"
	"github.com/phyten/jaspace/internal/document"
	"github.com/phyten/jaspace/internal/engine"
	engineopts "github.com/phyten/jaspace/internal/engine/opts"
	"github.com/phyten/jaspace/internal/execx"
)

// DefaultMaxBodyBytes は /api/lint の既定の本文上限 (1 MiB)
const DefaultMaxBodyBytes int64 = 1 << 20

const defaultInputName = "input"

var playgroundFormats = []string{document.FormatMarkdown, document.FormatText}

type lintRequest struct {
	Text   string `json:"text"`
	Format string `json:"format"`
	Name   string `json:"name"`
}

type lintResponse struct {
	Items  []engine.Item `json:"items"`
	Total  int           `json:"total"`
	Format string        `json:"format"`
}

// LintHandler は 1 つのテキストを lint する API です。
// GET はクエリ (text, format, name)、POST は JSON 本文かフォームを受け付けます。
func LintHandler(maxBody int64) http.Handler {
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req lintRequest
		switch r.Method {
		case http.MethodGet:
			q := r.URL.Query()
			req = lintRequest{Text: q.Get("text"), Format: q.Get("format"), Name: q.Get("name")}
			if int64(len(req.Text)) > maxBody {
				http.Error(w, fmt.Sprintf("text exceeds %d bytes", maxBody), http.StatusRequestEntityTooLarge)
				return
			}
		case http.MethodPost:
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
			parsed, status, err := decodeLintRequest(r)
			if err != nil {
				http.Error(w, err.Error(), status)
				return
			}
			req = parsed
		default:
			w.Header().Set("Allow", "GET, POST")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		format := strings.TrimSpace(req.Format)
		if format == "" {
			format = document.FormatMarkdown
		}
		if !detect.KnownFormat(format) {
			http.Error(w, "invalid format: "+format, http.StatusBadRequest)
			return
		}
		format = detect.NormalizeFormatName(format)
		name := strings.TrimSpace(req.Name)
		if name == "" {
			name = defaultInputName
		}

		items, err := engine.LintSource(name, format, []byte(req.Text))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if items == nil {
			items = []engine.Item{}
		}
		writeJSON(w, lintResponse{Items: items, Total: len(items), Format: format})
	})
}

func decodeLintRequest(r *http.Request) (lintRequest, int, error) {
	var req lintRequest
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseForm(); err != nil {
			return req, bodyErrorStatus(err), err
		}
		req = lintRequest{Text: r.PostForm.Get("text"), Format: r.PostForm.Get("format"), Name: r.PostForm.Get("name")}
		return req, 0, nil
	default:
		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return req, http.StatusBadRequest, errors.New("request body is empty")
			}
			return req, bodyErrorStatus(err), fmt.Errorf("invalid JSON body: %w", err)
		}
		return req, 0, nil
	}
}

func bodyErrorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// RunHandler はサーバー起動時のリポジトリを lint する API です。
// クエリは CLI と同じ名前 (path, exclude, formats, jobs ...) を受け付けます。
func RunHandler(repoDir string, runner execx.Runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", "GET")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		base := engineopts.Defaults(repoDir)
		base.Runner = runner
		opts, err := engineopts.ApplyWebQueryToOptions(base, r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := engineopts.NormalizeAndValidate(&opts); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := engine.RunContext(r.Context(), opts)
		if err != nil {
			if r.Context().Err() != nil {
				return
			}
			log.Printf("jaspace serve: run failed: %v", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if res.Items == nil {
			res.Items = []engine.Item{}
		}
		writeJSON(w, res)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	setSecurityHeaders(w)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		log.Printf("jaspace serve: encode response: %v", err)
	}
}
