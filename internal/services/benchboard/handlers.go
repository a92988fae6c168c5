package benchboard

import (
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/benchboard/internal/leaderboard/snapshot"
	"github.com/louisbranch/benchboard/internal/leaderboard/view"
	"github.com/louisbranch/benchboard/internal/platform/i18n"
	apperrors "github.com/louisbranch/benchboard/internal/services/benchboard/platform/errors"
	"github.com/louisbranch/benchboard/internal/services/benchboard/platform/httpx"
	"github.com/louisbranch/benchboard/internal/services/benchboard/routepath"
	bbstatic "github.com/louisbranch/benchboard/internal/services/benchboard/static"
	"github.com/louisbranch/benchboard/internal/services/benchboard/templates"
	"golang.org/x/text/language"
)

type handlers struct {
	snapshots SnapshotSource
	chrome    templates.Chrome
	blocks    templates.BlockOptions
	langs     *i18n.Languages
	logger    *log.Logger
}

// request is the per-request view state shared by page and fragment.
type request struct {
	snap snapshot.Snapshot
	tabs view.Tabs
	lang language.Tag
	loc  i18n.Localizer
}

func (h *handlers) resolve(w http.ResponseWriter, r *http.Request) request {
	snap := h.snapshots.Current()
	tag, persist := h.langs.Resolve(r)
	if persist {
		i18n.SetCookie(w, tag)
	}
	return request{
		snap: snap,
		tabs: view.ParseActive(r.URL.Query().Get(routepath.BenchParam), snap.Bundle.Leaderboard),
		lang: tag,
		loc:  h.langs.Printer(tag),
	}
}

func (h *handlers) table(req request) templates.TableModel {
	model := templates.NewTableModel(req.snap.Bundle, req.tabs)
	model.TabURL = routepath.Page
	model.FragmentURL = routepath.Fragment
	model.LinkIconURL = routepath.Static(bbstatic.LinkIcon, "")
	model.Loc = req.loc
	return model
}

func (h *handlers) page(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != routepath.Root {
		httpx.WriteError(w, apperrors.E(apperrors.KindNotFound, "page not found"))
		return
	}
	req := h.resolve(w, r)
	if httpx.IsHTMXRequest(r) {
		h.write(w, r, templates.LeaderboardTable(h.table(req)))
		return
	}
	token := req.snap.Token()
	h.write(w, r, templates.Page(templates.PageModel{
		Lang:          req.lang.String(),
		Chrome:        h.chrome,
		Table:         h.table(req),
		Sections:      req.snap.Bundle.Sections,
		Blocks:        h.blocks,
		StylesheetURL: routepath.Static(bbstatic.Stylesheet, token),
		ScriptURL:     routepath.Static(bbstatic.Script, token),
		DataURL:       routepath.DataWithToken(token),
		Loc:           req.loc,
	}))
}

func (h *handlers) fragment(w http.ResponseWriter, r *http.Request) {
	req := h.resolve(w, r)
	h.write(w, r, templates.LeaderboardTable(h.table(req)))
}

func (h *handlers) write(w http.ResponseWriter, r *http.Request, c templ.Component) {
	w.Header().Set("Vary", "HX-Request, Accept-Language, Cookie")
	if err := httpx.WriteComponent(w, r, http.StatusOK, c); err != nil {
		h.logger.Printf("render failed path=%s err=%v", r.URL.Path, err)
	}
}

func (h *handlers) data(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshots.Current()
	w.Header().Set("X-Bundle-Version", snap.Token())
	w.Header().Set("X-Bundle-Metric", string(snap.Bundle.MetricOrDefault()))
	if err := httpx.WriteJSON(w, http.StatusOK, snap.Bundle); err != nil {
		h.logger.Printf("write bundle json failed err=%v", err)
	}
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte("ok"))
	}
}
