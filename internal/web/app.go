// Package web は lint を試せるブラウザ用プレイグラウンドと JSON API を提供します。
package web

import (
	_ "embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/phyten/jaspace/internal/execx"
)

const (
	stylesPath = "/assets/styles.css"
	scriptPath = "/assets/ui.js"
)

var (
	//go:embed templates/index.html
	indexHTML string
	indexOnce sync.Once
	indexTmpl *template.Template

	//go:embed assets/styles.css
	stylesCSS string

	//go:embed assets/ui.js
	scriptJS string
)

type indexData struct {
	StylesPath string
	ScriptPath string
	Formats    []string
	HasRepo    bool
}

// Config は Register に渡すサーバー設定
type Config struct {
	// RepoDir が空なら /api/run は登録しません。
	RepoDir string
	// Runner は /api/run の git 実行に使います。nil なら execx.DefaultRunner。
	Runner execx.Runner
	// MaxBodyBytes は /api/lint が受け付ける本文の上限。0 以下なら DefaultMaxBodyBytes。
	MaxBodyBytes int64
}

// Register attaches handlers for the web UI assets and the API to the provided mux.
func Register(mux *http.ServeMux, cfg Config) {
	mux.HandleFunc("/", indexHandler(cfg.RepoDir != ""))
	mux.HandleFunc(stylesPath, stylesHandler)
	mux.HandleFunc(scriptPath, scriptHandler)
	mux.Handle("/api/lint", LintHandler(cfg.MaxBodyBytes))
	if cfg.RepoDir != "" {
		mux.Handle("/api/run", RunHandler(cfg.RepoDir, cfg.Runner))
	}
}

func indexHandler(hasRepo bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		tmpl := loadTemplate()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		setSecurityHeaders(w)
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'self'; script-src 'self'; img-src 'self'; connect-src 'self'; form-action 'self'; base-uri 'none'")
		data := indexData{
			StylesPath: stylesPath,
			ScriptPath: scriptPath,
			Formats:    playgroundFormats,
			HasRepo:    hasRepo,
		}
		if err := tmpl.Execute(w, data); err != nil {
			http.Error(w, "template rendering failed", http.StatusInternalServerError)
		}
	}
}

func stylesHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(stylesCSS))
}

func scriptHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(scriptJS))
}

func setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("X-Frame-Options", "DENY")
}

func loadTemplate() *template.Template {
	indexOnce.Do(func() {
		indexTmpl = template.Must(template.New("index").Parse(indexHTML))
	})
	return indexTmpl
}
